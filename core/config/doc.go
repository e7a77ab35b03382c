// Package config provides configuration management for the lighting patcher.
//
// It uses Viper for environment variables and godotenv for an optional .env
// file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
//   - LoadOrder: source (dir, bucket, database), data dir, plugins file, output
//   - Patch: strict_field_check, dry_run
//   - Server: HTTP port, API key, plan cache lifetime
//   - Storage: S3/MinIO credentials and bucket settings
//   - Database: MySQL or SQLite connection details
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.LoadOrder.DataDir)
package config
