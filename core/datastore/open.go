package datastore

import (
	"errors"
	"fmt"

	"lighting-patcher/core/plugin"
	"lighting-patcher/core/storage"

	"gorm.io/gorm"
)

// Backends carries the connections a source or sink may need. Fields are
// nil when the corresponding backend is not configured.
type Backends struct {
	Storage       storage.Client
	StorageConfig storage.Config
	DB            *gorm.DB
}

// OpenSource returns the source selected by cfg.Source.
func OpenSource(cfg plugin.Config, b Backends) (plugin.Source, error) {
	format, err := cfg.DocumentFormat()
	if err != nil {
		return nil, err
	}

	switch cfg.Source {
	case plugin.SourceDir, "":
		return NewDirSource(cfg.DataDir, cfg.PluginsFile), nil
	case plugin.SourceBucket:
		if b.Storage == nil {
			return nil, errors.New("bucket source requires a storage client")
		}
		return NewBucketStore(b.Storage, b.StorageConfig, cfg.BucketPrefix, cfg.PluginsFile, format), nil
	case plugin.SourceDatabase:
		if b.DB == nil {
			return nil, errors.New("database source requires a database connection")
		}
		return NewDatabaseStore(b.DB, format), nil
	default:
		return nil, fmt.Errorf("unsupported load order source %q", cfg.Source)
	}
}

// OpenSinks returns where the patch is written: always the output directory,
// plus the bucket when cfg.Publish is set.
func OpenSinks(cfg plugin.Config, b Backends) ([]plugin.Sink, error) {
	format, err := cfg.DocumentFormat()
	if err != nil {
		return nil, err
	}

	sinks := []plugin.Sink{NewDirSink(cfg.OutputDir, format)}
	if cfg.Publish {
		if b.Storage == nil {
			return nil, errors.New("publishing requires a storage client")
		}
		sinks = append(sinks, NewBucketStore(b.Storage, b.StorageConfig, cfg.BucketPrefix, cfg.PluginsFile, format))
	}
	return sinks, nil
}
