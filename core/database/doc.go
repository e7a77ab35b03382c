// Package database handles database connections and schema inspection.
//
// It wraps GORM and configures a MySQL or SQLite connection from the
// application's configuration. The database is one of the places the plugin
// load order can be read from.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table on either dialect;
// MissingColumns checks a table against the columns a reader needs before it
// queries it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	missing, err := database.MissingColumns(db, "plugins", []string{"name", "payload"})
package database
