package cmd

import (
	"fmt"

	"lighting-patcher/core/datastore"
	"lighting-patcher/core/plugin"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// importCmd loads a data directory into the plugin database.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the load order and plugin documents into the database",
	Long: `Reads the plugins file and every plugin document from the data directory
and replaces the content of the plugins table with them, so the database
source can be used afterwards.

Examples:
  # Import ./Data into the configured database
  lighting-patcher import

  # Import into a local SQLite file
  DATABASE_DRIVER=sqlite DATABASE_NAME=plugins.db lighting-patcher import --data-dir ./Data`,
	RunE: runImport,
}

func init() {
	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	if a.backends.DB == nil {
		if err := a.connectDB(); err != nil {
			return err
		}
	}

	lo := a.cfg.LoadOrder
	src := datastore.NewDirSource(lo.DataDir, lo.PluginsFile)
	order, err := plugin.Load(ctx, src, a.catalog.Bases()...)
	if err != nil {
		return err
	}

	entries := make([]plugin.Entry, 0, order.Len())
	for _, l := range order.Listings() {
		entries = append(entries, plugin.Entry{ModKey: l.ModKey, Enabled: l.Enabled})
	}

	format, err := lo.DocumentFormat()
	if err != nil {
		return err
	}
	store := datastore.NewDatabaseStore(a.backends.DB, format)

	n, err := store.Import(ctx, entries, order.Mods())
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", lo.DataDir, err)
	}

	a.log.Info("Imported load order",
		zap.String("from", lo.DataDir),
		zap.Int("plugins", n),
		zap.Int("documents", len(order.Mods())),
	)
	return nil
}
