package cmd

import (
	"fmt"
	"os"

	"lighting-patcher/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "lighting-patcher",
	Short: "True Light lighting patcher",
	Long: `Lighting Patcher forwards True Light interior lighting and light records
onto the winning records of a load order and writes the result as a patch plugin.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level gives readable ISO8601 output for CLI users
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	f := RootCmd.PersistentFlags()
	f.StringVar(&overrides.source, "source", "", "Load order source: dir, bucket or database")
	f.StringVar(&overrides.dataDir, "data-dir", "", "Directory holding plugin documents and the plugins file")
	f.StringVar(&overrides.pluginsFile, "plugins", "", "Plugins file, relative to the data dir or bucket prefix")
	f.StringVar(&overrides.outputDir, "output", "", "Directory the patch is written to")
	f.StringVar(&overrides.patchName, "patch-name", "", "File name of the generated patch plugin")
	f.StringVar(&overrides.format, "format", "", "Patch document format: json or yaml")
	f.StringVar(&overrides.catalogPath, "catalog", "", "Plugin catalog (TOML) replacing the built-in one")
}
