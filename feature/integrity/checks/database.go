package checks

import (
	"fmt"
	"sync"

	"lighting-patcher/core/database"
	"lighting-patcher/core/datastore"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DatabaseReport strictly types the result of a database integrity check.
type DatabaseReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
	Plugins int64                  `json:"plugins"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckDatabase verifies the plugins table against the PluginRow model.
func CheckDatabase(db *gorm.DB) (*DatabaseReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	model, err := schema.Parse(&datastore.PluginRow{}, &sync.Map{}, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plugin model: %w", err)
	}

	report := &DatabaseReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	required := make([]string, 0, len(model.Fields))
	for _, field := range model.Fields {
		if field.DBName != "" {
			required = append(required, field.DBName)
		}
	}

	missing, err := database.MissingColumns(db, model.Table, required)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", model.Table, err))
		report.Matched = false
		return report, nil
	}

	tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
	if len(missing) > 0 {
		tbl.MissingColumns = missing
		tbl.Status = "error"
		report.Matched = false
	}
	report.Tables[model.Table] = tbl

	if report.Matched {
		if err := db.Model(&datastore.PluginRow{}).Count(&report.Plugins).Error; err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to count plugins: %v", err))
		}
	}

	return report, nil
}
