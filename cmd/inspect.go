package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// inspectCmd validates the load order and shows the reference set.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Validate the load order and show the reference set",
	Long: `Checks that True Light is installed and at most one lighting template is
active, then prints the reference plugins and the default lighting cell used
for mod-added cells. Nothing is written.`,
	RunE: runInspect,
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}

	in, err := svc.Inspect(ctx)
	if err != nil {
		return err
	}

	template := in.ActiveTemplate
	if template == "" {
		template = "none"
	}
	fallback := "none"
	if c := in.DefaultCell; c != nil {
		fallback = fmt.Sprintf("%s (%s)", c.EditorID, c.FormKey)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendRows([]table.Row{
		{"Source", in.Source},
		{"Plugins listed", strconv.Itoa(in.Plugins)},
		{"Plugins loaded", strconv.Itoa(in.Loaded)},
		{"Primary", in.Primary},
		{"Reference set", strings.Join(in.Reference, "\n")},
		{"Active template", template},
		{"Default lighting cell", fallback},
		{"Winning cells / lights", fmt.Sprintf("%d / %d", in.WinningCells, in.WinningLights)},
		{"Reference cells / lights", fmt.Sprintf("%d / %d", in.ReferenceCells, in.ReferenceLights)},
	})

	_, err = fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
	return err
}
