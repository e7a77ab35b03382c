package reconcile

import (
	"context"
	"fmt"

	"lighting-patcher/core/plugin"
	"lighting-patcher/core/reconcile"
	"lighting-patcher/feature/lighting/rules"
)

// lightingField is the only cell field compared and copied.
const lightingField = "Lighting"

// CellOverride is the payload of a cell lighting override.
type CellOverride struct {
	Winning  *plugin.Cell
	Lighting *plugin.CellLighting
}

// CellAdapter copies reference lighting onto winning interior cells.
type CellAdapter struct {
	loadOrder *plugin.LinkCache
	reference *plugin.LinkCache
	catalog   *rules.Catalog
	fallback  *plugin.Cell
}

// NewCellAdapter creates the cell engine. fallback may be nil.
func NewCellAdapter(loadOrder, reference *plugin.LinkCache, catalog *rules.Catalog, fallback *plugin.Cell) *CellAdapter {
	return &CellAdapter{
		loadOrder: loadOrder,
		reference: reference,
		catalog:   catalog,
		fallback:  fallback,
	}
}

// Name implements reconcile.Adapter.
func (a *CellAdapter) Name() string { return "cells" }

// Candidates returns every winning interior cell, in priority order.
func (a *CellAdapter) Candidates(ctx context.Context) ([]reconcile.Item, error) {
	var items []reconcile.Item
	for _, winner := range a.loadOrder.WinningCells() {
		if winner.Record.IsInterior() {
			items = append(items, winner)
		}
	}
	return items, nil
}

// Evaluate implements reconcile.Adapter.
func (a *CellAdapter) Evaluate(item reconcile.Item, cfg reconcile.Config) (reconcile.Result, *reconcile.Action) {
	winner := item.(plugin.Context[*plugin.Cell])
	cell := winner.Record

	result := reconcile.Result{
		Key:      cell.FormKey.String(),
		Kind:     string(plugin.KindCell),
		EditorID: cell.EditorID,
	}

	if cfg.StrictFieldCheck && cell.Lighting == nil {
		result.Outcome = reconcile.OutcomeSkipped
		result.Reason = "winning cell has no lighting"
		return result, nil
	}

	result.ModAdded = !a.catalog.IsCanonical(cell.FormKey.ModKey)

	var candidate *plugin.Cell
	source := "reference"
	if !result.ModAdded {
		if ref, ok := a.reference.ResolveCell(cell.FormKey); ok && ref.Lighting != nil {
			candidate = ref
		}
	}
	if candidate == nil && a.fallback != nil {
		candidate = a.fallback
		source = "default cell " + a.fallback.FormKey.String()
		result.UsedDefault = true
	}

	if candidate == nil {
		result.Outcome = reconcile.OutcomeSkipped
		result.Reason = "no reference lighting and no default cell"
		return result, nil
	}

	if plugin.CellsEqual(cell, candidate, lightingField) {
		result.Outcome = reconcile.OutcomeAlreadyPatched
		result.Reason = "lighting matches " + source
		return result, nil
	}

	result.Outcome = reconcile.OutcomePatched
	result.Reason = fmt.Sprintf("lighting from %s (winner %s)", source, winner.ModKey)
	return result, &reconcile.Action{
		Type:   reconcile.ActionOverrideField,
		Key:    result.Key,
		Kind:   result.Kind,
		Reason: result.Reason,
		Payload: CellOverride{
			Winning:  cell,
			Lighting: candidate.Lighting.DeepCopy(),
		},
	}
}
