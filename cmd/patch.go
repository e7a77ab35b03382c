package cmd

import (
	"lighting-patcher/core/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunPatch  bool
	strictPatch  bool
	publishPatch bool
)

// patchCmd runs the patcher once.
var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Generate the lighting patch",
	Long: `Reads the load order, validates it, copies True Light interior lighting onto
the winning cells, forwards True Light light records and writes the patch.

Examples:
  # Patch the load order in ./Data into ./Output
  lighting-patcher patch

  # Show what would change without writing anything
  lighting-patcher patch --dry-run

  # Read plugins from the bucket and publish the patch back to it
  lighting-patcher patch --source bucket --publish`,
	RunE: runPatch,
}

func init() {
	patchCmd.Flags().BoolVar(&dryRunPatch, "dry-run", false, "Plan only; write nothing")
	patchCmd.Flags().BoolVar(&strictPatch, "strict", false, "Skip winning cells that carry no lighting")
	patchCmd.Flags().BoolVar(&publishPatch, "publish", false, "Also upload the patch to the storage bucket")
	RootCmd.AddCommand(patchCmd)
}

func runPatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(cmd, func(cfg *config.Config) {
		if cmd.Flags().Changed("dry-run") {
			cfg.Patch.DryRun = dryRunPatch
		}
		if cmd.Flags().Changed("strict") {
			cfg.Patch.StrictFieldCheck = strictPatch
		}
		if cmd.Flags().Changed("publish") {
			cfg.LoadOrder.Publish = publishPatch
		}
	})
	if err != nil {
		return err
	}
	defer a.log.Sync()

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}

	report, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	if err := report.WriteSummary(cmd.OutOrStdout()); err != nil {
		return err
	}
	for _, location := range report.Written {
		a.log.Info("Patch available", zap.String("location", location))
	}
	return nil
}
