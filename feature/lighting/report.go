package lighting

import (
	"fmt"
	"io"
	"strconv"

	"lighting-patcher/core/plugin"
	"lighting-patcher/core/reconcile"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Report is the outcome of one planning or patching run.
type Report struct {
	RunID         string            `json:"run_id"`
	Patch         string            `json:"patch"`
	DryRun        bool              `json:"dry_run"`
	Plans         []*reconcile.Plan `json:"plans"`
	Summary       reconcile.Summary `json:"summary"`
	CellsPatched  int               `json:"cells_patched"`
	LightsPatched int               `json:"lights_patched"`
	Applied       int               `json:"applied"`
	Written       []string          `json:"written,omitempty"`
}

func newReport(runID string, patchKey plugin.ModKey, plans []*reconcile.Plan) *Report {
	r := &Report{
		RunID:   runID,
		Patch:   patchKey.FileName(),
		Plans:   plans,
		Summary: reconcile.Total(plans),
	}
	for _, p := range plans {
		switch p.Adapter {
		case "cells":
			r.CellsPatched = p.Summary.Patched
		case "lights":
			r.LightsPatched = p.Summary.Patched
		}
	}
	return r
}

// Plan returns the plan produced by the named engine, or nil.
func (r *Report) Plan(adapter string) *reconcile.Plan {
	for _, p := range r.Plans {
		if p.Adapter == adapter {
			return p
		}
	}
	return nil
}

// WriteSummary renders the per-engine counts as a table followed by the
// patched totals.
func (r *Report) WriteSummary(w io.Writer) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Engine", "Seen", "Patched", "Skipped", "Already patched", "Already modified", "Not in reference", "Using default", "Mod added"})

	for _, p := range r.Plans {
		tw.AppendRow(summaryRow(p.Adapter, p.Summary))
	}
	tw.AppendFooter(summaryRow("total", r.Summary))

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for i := 2; i <= 9; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)

	mode := ""
	if r.DryRun {
		mode = " (dry run)"
	}
	_, err := fmt.Fprintf(w, "%s\nPatched %d cells\nPatched %d lights%s\n", tw.Render(), r.CellsPatched, r.LightsPatched, mode)
	return err
}

func summaryRow(name string, s reconcile.Summary) table.Row {
	return table.Row{
		name,
		strconv.Itoa(s.Seen),
		strconv.Itoa(s.Patched),
		strconv.Itoa(s.Skipped),
		strconv.Itoa(s.AlreadyPatched),
		strconv.Itoa(s.AlreadyModified),
		strconv.Itoa(s.NotInReference),
		strconv.Itoa(s.UsingDefault),
		strconv.Itoa(s.ModAdded),
	}
}
