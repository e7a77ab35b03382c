package plugin

import "fmt"

// Config holds configuration for reading the load order and writing the patch.
type Config struct {
	// Source selects where plugins are read from (dir, bucket, database).
	Source string `mapstructure:"source" default:"dir"`
	// DataDir is the directory holding plugin documents for the dir source.
	DataDir string `mapstructure:"data_dir" default:"./Data"`
	// PluginsFile is the load order file, relative to DataDir or BucketPrefix.
	PluginsFile string `mapstructure:"plugins_file" default:"plugins.txt"`
	// OutputDir is where the patch document is written.
	OutputDir string `mapstructure:"output_dir" default:"./Output"`
	// PatchName is the file name of the generated patch plugin.
	PatchName string `mapstructure:"patch_name" default:"TrueLightPatcher.esp"`
	// Format is the document format of the written patch (json, yaml).
	Format string `mapstructure:"format" default:"json"`
	// CatalogPath optionally replaces the built-in plugin catalog (TOML).
	CatalogPath string `mapstructure:"catalog_path" default:""`
	// BucketPrefix is the object prefix used by the bucket source.
	BucketPrefix string `mapstructure:"bucket_prefix" default:"plugins"`
	// Publish mirrors the written patch to the storage bucket.
	Publish bool `mapstructure:"publish" default:"false"`
}

const (
	SourceDir      = "dir"
	SourceBucket   = "bucket"
	SourceDatabase = "database"
)

// IsValidSource checks if the configured source is supported.
func (c Config) IsValidSource() bool {
	switch c.Source {
	case SourceDir, SourceBucket, SourceDatabase:
		return true
	default:
		return false
	}
}

// PatchKey parses PatchName.
func (c Config) PatchKey() (ModKey, error) {
	key, err := ModKeyFromFileName(c.PatchName)
	if err != nil {
		return ModKey{}, fmt.Errorf("invalid patch name: %w", err)
	}
	return key, nil
}

// DocumentFormat parses Format, defaulting to JSON.
func (c Config) DocumentFormat() (Format, error) {
	switch Format(c.Format) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document format %q", c.Format)
	}
}
