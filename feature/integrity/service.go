package integrity

import (
	"context"
	"errors"

	"lighting-patcher/core/plugin"
	"lighting-patcher/core/storage"
	"lighting-patcher/feature/integrity/checks"
	"lighting-patcher/feature/lighting/rules"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNoStorage is returned by storage checks when no client is configured.
	ErrNoStorage = errors.New("storage is not configured")
	// ErrNoDatabase is returned by database checks when no connection is configured.
	ErrNoDatabase = errors.New("database is not configured")
)

// Options configures a Service. Client and DB are optional; the checks that
// need them fail with ErrNoStorage or ErrNoDatabase.
type Options struct {
	Source        plugin.Source
	Catalog       *rules.Catalog
	Client        storage.Client
	StorageConfig storage.Config
	BucketPrefix  string
	PluginsFile   string
	DB            *gorm.DB
	Logger        *zap.Logger
}

// Service handles integrity checks.
type Service struct {
	opts   Options
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(opts Options) *Service {
	if opts.Catalog == nil {
		opts.Catalog = rules.DefaultCatalog()
	}
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{opts: opts, logger: l}
}

// CheckLoadOrder verifies every enabled plugin has a readable document and
// its masters.
func (s *Service) CheckLoadOrder(ctx context.Context) (*checks.LoadOrderReport, error) {
	if s.opts.Source == nil {
		return nil, errors.New("no load order source configured")
	}
	return checks.CheckLoadOrder(ctx, s.opts.Source, s.opts.Catalog)
}

// CheckStorage returns the objects missing from the storage bucket.
func (s *Service) CheckStorage(ctx context.Context) ([]string, error) {
	if s.opts.Client == nil {
		return nil, ErrNoStorage
	}
	return checks.CheckStorage(ctx, s.opts.Client, s.opts.StorageConfig.Bucket, s.opts.BucketPrefix, s.opts.PluginsFile)
}

// PluginsObject returns the object the storage check looks for.
func (s *Service) PluginsObject() string {
	return checks.PluginsObject(s.opts.BucketPrefix, s.opts.PluginsFile)
}

// FixStorage creates the bucket and the missing objects.
func (s *Service) FixStorage(ctx context.Context, missing []string) error {
	if s.opts.Client == nil {
		return ErrNoStorage
	}
	return checks.FixStorage(ctx, s.opts.Client, s.opts.StorageConfig.Bucket, s.opts.StorageConfig.Region, s.logger, missing)
}

// CheckDatabase verifies the plugins table schema.
func (s *Service) CheckDatabase() (*checks.DatabaseReport, error) {
	if s.opts.DB == nil {
		return nil, ErrNoDatabase
	}
	return checks.CheckDatabase(s.opts.DB)
}
