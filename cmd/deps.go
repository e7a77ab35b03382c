package cmd

import (
	"context"
	"fmt"

	"lighting-patcher/core/config"
	"lighting-patcher/core/database"
	"lighting-patcher/core/datastore"
	"lighting-patcher/core/logger"
	"lighting-patcher/core/plugin"
	"lighting-patcher/core/storage"
	"lighting-patcher/feature/lighting"
	"lighting-patcher/feature/lighting/rules"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// flagOverrides holds the persistent flags that override configuration.
type flagOverrides struct {
	source      string
	dataDir     string
	pluginsFile string
	outputDir   string
	patchName   string
	format      string
	catalogPath string
}

var overrides flagOverrides

// apply copies every flag the user set onto cfg.
func (o flagOverrides) apply(cmd *cobra.Command, cfg *plugin.Config) {
	set := func(name string, dst *string, value string) {
		if cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	set("source", &cfg.Source, o.source)
	set("data-dir", &cfg.DataDir, o.dataDir)
	set("plugins", &cfg.PluginsFile, o.pluginsFile)
	set("output", &cfg.OutputDir, o.outputDir)
	set("patch-name", &cfg.PatchName, o.patchName)
	set("format", &cfg.Format, o.format)
	set("catalog", &cfg.CatalogPath, o.catalogPath)
}

// app is what every command needs: configuration, a logger and the
// backends the configured source and sinks use.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	backends datastore.Backends
	catalog  *rules.Catalog
}

// setup loads configuration, applies flag overrides and command specific
// tweaks, then connects only the backends the configuration requires.
func setup(cmd *cobra.Command, tweaks ...func(*config.Config)) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	overrides.apply(cmd, &cfg.LoadOrder)
	for _, tweak := range tweaks {
		tweak(cfg)
	}

	if !cfg.LoadOrder.IsValidSource() {
		return nil, fmt.Errorf("unsupported load order source %q", cfg.LoadOrder.Source)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	catalog, err := rules.LoadCatalog(cfg.LoadOrder.CatalogPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: l, catalog: catalog}
	a.backends.StorageConfig = cfg.Storage

	if cfg.LoadOrder.Source == plugin.SourceBucket || cfg.LoadOrder.Publish {
		if err := a.connectStorage(); err != nil {
			return nil, err
		}
	}

	if cfg.LoadOrder.Source == plugin.SourceDatabase {
		if err := a.connectDB(); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *app) connectStorage() error {
	client, err := storage.NewClient(a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	a.backends.Storage = client
	return nil
}

func (a *app) connectDB() error {
	db, err := database.Connect(a.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.backends.DB = db
	a.log.Info("Connected to plugin database", zap.String("driver", a.cfg.Database.Driver))
	return nil
}

// service builds the lighting service over the configured source and sinks.
func (a *app) service(ctx context.Context) (*lighting.Service, error) {
	source, err := datastore.OpenSource(a.cfg.LoadOrder, a.backends)
	if err != nil {
		return nil, err
	}
	if store, ok := source.(*datastore.DatabaseStore); ok {
		if err := store.CheckSchema(ctx); err != nil {
			return nil, err
		}
	}

	sinks, err := datastore.OpenSinks(a.cfg.LoadOrder, a.backends)
	if err != nil {
		return nil, err
	}

	patchKey, err := a.cfg.LoadOrder.PatchKey()
	if err != nil {
		return nil, err
	}

	return lighting.NewService(lighting.Options{
		Source:    source,
		Sinks:     sinks,
		Catalog:   a.catalog,
		PatchKey:  patchKey,
		Reconcile: a.cfg.Patch,
		PlanTTL:   a.cfg.Server.PlanTTL(),
		Logger:    a.log,
	}), nil
}
