package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"lighting-patcher/core/datastore"
	"lighting-patcher/feature/integrity"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd runs every check the configured backends allow.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the load order, storage bucket and plugin database",
	Long: `Checks that every enabled plugin has a readable document and its masters,
that the storage bucket holds the plugins file and that the plugins table has
the expected columns. Storage and database checks run only when configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, true, true, true)
	},
}

var loadOrderCmd = &cobra.Command{
	Use:   "load-order",
	Short: "Check plugin documents and masters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, true, false, false)
	},
}

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the storage bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, false, true, false)
	},
}

var databaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Check the plugins table schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(loadOrderCmd, storageCmd, databaseCmd)

	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket and missing objects")
}

// integrityService builds the integrity service over whatever backends are
// connected.
func (a *app) integrityService() (*integrity.Service, error) {
	source, err := datastore.OpenSource(a.cfg.LoadOrder, a.backends)
	if err != nil {
		return nil, err
	}
	return integrity.NewService(integrity.Options{
		Source:        source,
		Catalog:       a.catalog,
		Client:        a.backends.Storage,
		StorageConfig: a.cfg.Storage,
		BucketPrefix:  a.cfg.LoadOrder.BucketPrefix,
		PluginsFile:   a.cfg.LoadOrder.PluginsFile,
		DB:            a.backends.DB,
		Logger:        a.log,
	}), nil
}

func runIntegrity(cmd *cobra.Command, loadOrder, store, db bool) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	// A single check connects its backend even when the source does not need it.
	only := loadOrder != store || store != db
	if store && only && a.backends.Storage == nil {
		if err := a.connectStorage(); err != nil {
			return err
		}
	}
	if db && only && a.backends.DB == nil {
		if err := a.connectDB(); err != nil {
			return err
		}
	}

	svc, err := a.integrityService()
	if err != nil {
		return err
	}

	problems := 0
	if loadOrder {
		n, err := checkLoadOrder(ctx, cmd.OutOrStdout(), a.log, svc)
		if err != nil {
			return err
		}
		problems += n
	}
	if store {
		n, err := checkStorage(ctx, a.log, svc)
		if err != nil {
			return err
		}
		problems += n
	}
	if db {
		n, err := checkDatabase(a.log, svc)
		if err != nil {
			return err
		}
		problems += n
	}

	if problems > 0 {
		return fmt.Errorf("integrity check found %d problems", problems)
	}
	return nil
}

func checkLoadOrder(ctx context.Context, w io.Writer, l *zap.Logger, svc *integrity.Service) (int, error) {
	l.Info("Checking load order...")
	report, err := svc.CheckLoadOrder(ctx)
	if err != nil {
		return 0, fmt.Errorf("load order check failed: %w", err)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Catalog plugin", "Category", "Status"})
	for _, p := range report.Catalog {
		tw.AppendRow(table.Row{p.Name, p.Category, p.Status})
	}
	if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
		return 0, err
	}

	if report.Healthy() {
		l.Info("Load order is intact.", zap.Int("enabled", report.Enabled))
		return 0, nil
	}

	warn := func(msg string, items []string) {
		if len(items) > 0 {
			l.Warn(msg, zap.Strings("plugins", items))
		}
	}
	warn("Missing plugin documents", report.MissingDocuments)
	warn("Unreadable plugin documents", report.BrokenDocuments)
	warn("Missing masters", report.MissingMasters)
	warn("Masters loaded out of order", report.MastersOutOfOrder)

	return len(report.MissingDocuments) + len(report.BrokenDocuments) +
		len(report.MissingMasters) + len(report.MastersOutOfOrder), nil
}

func checkStorage(ctx context.Context, l *zap.Logger, svc *integrity.Service) (int, error) {
	l.Info("Checking storage bucket...")
	missing, err := svc.CheckStorage(ctx)
	if errors.Is(err, integrity.ErrNoStorage) {
		l.Info("Storage is not configured, skipping.")
		return 0, nil
	}
	if err != nil && !fixFlag {
		return 0, fmt.Errorf("storage check failed: %w", err)
	}
	if err != nil {
		// A missing bucket is fixable too.
		l.Warn("Storage check failed, fixing", zap.Error(err))
		missing = []string{svc.PluginsObject()}
	}

	if len(missing) == 0 {
		l.Info("Storage is intact.")
		return 0, nil
	}

	l.Warn("Missing objects detected", zap.Strings("missing", missing))
	if !fixFlag {
		l.Info("Run with --fix to create missing objects.")
		return len(missing), nil
	}

	l.Info("Fixing missing objects...")
	if err := svc.FixStorage(ctx, missing); err != nil {
		return 0, fmt.Errorf("failed to fix storage: %w", err)
	}
	l.Info("Storage fixed successfully.")
	return 0, nil
}

func checkDatabase(l *zap.Logger, svc *integrity.Service) (int, error) {
	l.Info("Checking plugin database schema...")
	report, err := svc.CheckDatabase()
	if errors.Is(err, integrity.ErrNoDatabase) {
		l.Info("Database is not configured, skipping.")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("database check failed: %w", err)
	}

	if report.Matched {
		l.Info("Database schema matches.", zap.String("driver", report.Driver), zap.Int64("plugins", report.Plugins))
		return 0, nil
	}

	problems := len(report.Errors)
	for name, tbl := range report.Tables {
		if tbl.Status != "ok" {
			l.Warn("Missing columns", zap.String("table", name), zap.Strings("columns", tbl.MissingColumns))
			problems += len(tbl.MissingColumns)
		}
	}
	for _, e := range report.Errors {
		l.Error("Inspection error", zap.String("error", e))
	}
	return problems, nil
}
