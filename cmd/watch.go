package cmd

import (
	"context"
	"fmt"
	"time"

	"lighting-patcher/core/plugin"
	"lighting-patcher/feature/lighting"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchDebounce time.Duration

// watchCmd reruns the patcher whenever the data directory changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the patch whenever the load order changes",
	Long: `Runs the patcher once, then watches the data directory and runs it again
after the plugins file or any plugin document changes. Only the dir source
can be watched.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", lighting.DefaultDebounce, "Quiet period before a change triggers a run")
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	lo := a.cfg.LoadOrder
	if lo.Source != plugin.SourceDir {
		return fmt.Errorf("watch needs the dir source, not %q", lo.Source)
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}

	patchKey, err := lo.PatchKey()
	if err != nil {
		return err
	}
	var ignore []string
	for _, ext := range plugin.DocumentExtensions() {
		ignore = append(ignore, patchKey.FileName()+ext)
	}

	w, err := lighting.NewWatcher(lo.DataDir, lo.PluginsFile, ignore, watchDebounce, a.log)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", lo.DataDir, err)
	}

	run := func(ctx context.Context) error {
		report, err := svc.Run(ctx)
		if err != nil {
			return err
		}
		return report.WriteSummary(cmd.OutOrStdout())
	}

	if err := run(ctx); err != nil {
		a.log.Error("Initial patch run failed", zap.Error(err))
	}

	a.log.Info("Watching for load order changes", zap.String("dir", lo.DataDir))
	return w.Run(ctx, run)
}
