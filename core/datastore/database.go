package datastore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"lighting-patcher/core/database"
	"lighting-patcher/core/plugin"
	"lighting-patcher/core/utils"

	"gorm.io/gorm"
)

// PluginTable is the table holding the load order and plugin documents.
const PluginTable = "plugins"

// requiredColumns are the columns ReadLoadOrder and ReadMod query.
var requiredColumns = []string{"id", "name", "load_index", "enabled", "format", "payload"}

// PluginRow is one plugin of the load order and its document.
type PluginRow struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;uniqueIndex"`
	LoadIndex int    `gorm:"index"`
	Enabled   bool
	Format    string `gorm:"size:8"`
	Payload   []byte
}

// TableName implements gorm's tabler.
func (PluginRow) TableName() string { return PluginTable }

// DatabaseStore keeps the load order and plugin documents in a SQL table.
type DatabaseStore struct {
	db     *gorm.DB
	format plugin.Format
}

// NewDatabaseStore creates a store over db. format is used for documents it writes.
func NewDatabaseStore(db *gorm.DB, format plugin.Format) *DatabaseStore {
	return &DatabaseStore{db: db, format: format}
}

// Name implements plugin.Source and plugin.Sink.
func (s *DatabaseStore) Name() string { return plugin.SourceDatabase }

// CheckSchema verifies the plugins table has every column the store reads.
func (s *DatabaseStore) CheckSchema(ctx context.Context) error {
	missing, err := database.MissingColumns(s.db.WithContext(ctx), PluginTable, requiredColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", PluginTable, strings.Join(missing, ", "))
	}
	return nil
}

// ReadLoadOrder implements plugin.Source.
func (s *DatabaseStore) ReadLoadOrder(ctx context.Context) ([]plugin.Entry, error) {
	if err := s.CheckSchema(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT name, enabled, load_index FROM %s ORDER BY load_index, id", PluginTable)).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query load order: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var entries []plugin.Entry
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[strings.ToLower(col)] = values[i]
		}

		key, err := plugin.ModKeyFromFileName(utils.ToString(row["name"]))
		if err != nil {
			return nil, fmt.Errorf("load order row %d: %w", utils.ToInt(row["load_index"]), err)
		}
		entries = append(entries, plugin.Entry{ModKey: key, Enabled: utils.ToBool(row["enabled"])})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read load order: %w", err)
	}

	return entries, nil
}

// ReadMod implements plugin.Source.
func (s *DatabaseStore) ReadMod(ctx context.Context, key plugin.ModKey) (*plugin.Mod, error) {
	var row PluginRow
	err := s.db.WithContext(ctx).Where("LOWER(name) = ?", key.Index()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, plugin.ErrModNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", key, err)
	}
	if len(row.Payload) == 0 {
		return nil, plugin.ErrModNotFound
	}

	format := plugin.Format(row.Format)
	if format == "" {
		format = plugin.FormatJSON
	}
	mod, err := plugin.DecodeMod(bytes.NewReader(row.Payload), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return mod, nil
}

// WriteMod implements plugin.Sink. The plugin is appended to the end of the
// load order, or updated in place when already present.
func (s *DatabaseStore) WriteMod(ctx context.Context, mod *plugin.Mod) (string, error) {
	payload, err := s.encode(mod)
	if err != nil {
		return "", err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing PluginRow
		err := tx.Where("LOWER(name) = ?", mod.ModKey.Index()).First(&existing).Error
		switch {
		case err == nil:
			return tx.Model(&existing).Updates(map[string]any{
				"format":  string(s.format),
				"payload": payload,
				"enabled": true,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			var last int
			if err := tx.Model(&PluginRow{}).Select("COALESCE(MAX(load_index), -1)").Scan(&last).Error; err != nil {
				return err
			}
			return tx.Create(&PluginRow{
				Name:      mod.ModKey.FileName(),
				LoadIndex: last + 1,
				Enabled:   true,
				Format:    string(s.format),
				Payload:   payload,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", mod.ModKey, err)
	}

	return PluginTable + "/" + mod.ModKey.FileName(), nil
}

// Import replaces the table content with entries and their documents. Mods
// are matched to entries by key; entries without a document are stored
// without payload.
func (s *DatabaseStore) Import(ctx context.Context, entries []plugin.Entry, mods []*plugin.Mod) (int, error) {
	byKey := make(map[string]*plugin.Mod, len(mods))
	for _, m := range mods {
		byKey[m.ModKey.Index()] = m
	}

	rows := make([]PluginRow, 0, len(entries))
	for i, e := range entries {
		row := PluginRow{
			Name:      e.ModKey.FileName(),
			LoadIndex: i,
			Enabled:   e.Enabled,
			Format:    string(s.format),
		}
		if m, ok := byKey[e.ModKey.Index()]; ok {
			payload, err := s.encode(m)
			if err != nil {
				return 0, err
			}
			row.Payload = payload
		}
		rows = append(rows, row)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&PluginRow{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", PluginTable, err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&PluginRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", PluginTable, err)
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *DatabaseStore) encode(mod *plugin.Mod) ([]byte, error) {
	var buf bytes.Buffer
	if err := plugin.EncodeMod(&buf, mod, s.format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
