package checks

import (
	"testing"

	"lighting-patcher/core/datastore"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestCheckDatabase_Matched(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, db.AutoMigrate(&datastore.PluginRow{}))
	require.NoError(t, db.Create(&datastore.PluginRow{Name: "Skyrim.esm", Enabled: true}).Error)

	report, err := CheckDatabase(db)
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "sqlite", report.Driver)
	assert.Equal(t, "ok", report.Tables[datastore.PluginTable].Status)
	assert.Equal(t, int64(1), report.Plugins)
}

func TestCheckDatabase_MissingTable(t *testing.T) {
	report, err := CheckDatabase(openSQLite(t))
	require.NoError(t, err)
	assert.False(t, report.Matched)

	tbl := report.Tables[datastore.PluginTable]
	assert.Equal(t, "error", tbl.Status)
	assert.ElementsMatch(t, []string{"id", "name", "load_index", "enabled", "format", "payload"}, tbl.MissingColumns)
}

func TestCheckDatabase_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment").
		AddRow("name", "varchar(255)", "YES", "UNI", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `plugins`").WillReturnRows(rows)

	report, err := CheckDatabase(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Equal(t, []string{"load_index", "enabled", "format", "payload"}, report.Tables["plugins"].MissingColumns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckDatabase_Nil(t *testing.T) {
	_, err := CheckDatabase(nil)
	assert.Error(t, err)
}
