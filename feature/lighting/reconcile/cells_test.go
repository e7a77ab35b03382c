package reconcile

import (
	"context"
	"testing"

	"lighting-patcher/core/plugin"
	"lighting-patcher/core/reconcile"
	"lighting-patcher/feature/lighting/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mod(name string, cells ...*plugin.Cell) *plugin.Mod {
	m := plugin.NewMod(plugin.MustModKey(name))
	m.Cells = cells
	return m
}

func interior(fk, editorID string, lighting *plugin.CellLighting) *plugin.Cell {
	return &plugin.Cell{
		FormKey:  plugin.MustFormKey(fk),
		EditorID: editorID,
		Flags:    plugin.CellInterior,
		Lighting: lighting,
	}
}

func evaluateCells(t *testing.T, adapter *CellAdapter, cfg reconcile.Config) (*reconcile.Plan, map[string]reconcile.Result) {
	t.Helper()
	plan, err := reconcile.ReconcileWithPlan(context.Background(), adapter, cfg)
	require.NoError(t, err)
	byKey := make(map[string]reconcile.Result, len(plan.Results))
	for _, r := range plan.Results {
		byKey[r.Key] = r
	}
	return plan, byKey
}

func TestCellAdapter_Candidates(t *testing.T) {
	exterior := &plugin.Cell{FormKey: plugin.MustFormKey("000100:Skyrim.esm"), EditorID: "Tamriel"}
	lo := plugin.NewLinkCache(mod("Skyrim.esm", exterior, interior("000200:Skyrim.esm", "Inn", nil)))

	items, err := NewCellAdapter(lo, plugin.NewLinkCache(), rules.DefaultCatalog(), nil).Candidates(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1, "exterior cells are not candidates")
	assert.Equal(t, "Inn", items[0].(plugin.Context[*plugin.Cell]).Record.EditorID)
}

func TestCellAdapter_CopiesReferenceLighting(t *testing.T) {
	refLighting := &plugin.CellLighting{FogNear: 64, FogFar: 4000, AmbientColor: plugin.Color{R: 20, G: 18, B: 16}}

	winning := interior("000200:Skyrim.esm", "WhiterunBanneredMare", nil)
	winning.Name = "The Bannered Mare"
	winning.WaterHeight = 12

	lo := plugin.NewLinkCache(mod("Skyrim.esm", winning))
	ref := plugin.NewLinkCache(mod("True Light.esm", interior("000200:Skyrim.esm", "WhiterunBanneredMare", refLighting)))

	plan, results := evaluateCells(t, NewCellAdapter(lo, ref, rules.DefaultCatalog(), nil), reconcile.Config{})

	r := results["000200:Skyrim.esm"]
	assert.Equal(t, reconcile.OutcomePatched, r.Outcome)
	assert.False(t, r.ModAdded)
	assert.False(t, r.UsedDefault)
	require.Len(t, plan.Actions, 1)

	patch := plugin.NewPatch(plugin.MustModKey("Lighting Patch.esp"))
	_, err := reconcile.ApplyPlan(context.Background(), NewPatchMutator(patch), plan, reconcile.Config{})
	require.NoError(t, err)

	out := patch.Mod(nil)
	require.Len(t, out.Cells, 1)
	override := out.Cells[0]
	assert.Equal(t, refLighting, override.Lighting)
	assert.NotSame(t, refLighting, override.Lighting)
	rest := override.DeepCopy()
	rest.Lighting = nil
	assert.Equal(t, winning, rest, "only lighting changes")
	assert.Nil(t, winning.Lighting, "winning record untouched")
}

func TestCellAdapter_AlreadyPatched(t *testing.T) {
	lighting := &plugin.CellLighting{FogNear: 1, FogFar: 2}
	lo := plugin.NewLinkCache(
		mod("Skyrim.esm", interior("000200:Skyrim.esm", "Inn", nil)),
		mod("Lighting Patch.esp", interior("000200:Skyrim.esm", "Inn", lighting.DeepCopy())),
	)
	ref := plugin.NewLinkCache(mod("True Light.esm", interior("000200:Skyrim.esm", "Inn", lighting)))

	plan, results := evaluateCells(t, NewCellAdapter(lo, ref, rules.DefaultCatalog(), nil), reconcile.Config{})

	assert.Equal(t, reconcile.OutcomeAlreadyPatched, results["000200:Skyrim.esm"].Outcome)
	assert.Empty(t, plan.Actions)
}

func TestCellAdapter_Fallback(t *testing.T) {
	fallbackLighting := &plugin.CellLighting{FogNear: 5, FogFar: 500}
	fallback := interior("000900:True Light.esm", "TLDefault", fallbackLighting)

	tests := []struct {
		name        string
		winning     *plugin.Cell
		reference   []*plugin.Cell
		fallback    *plugin.Cell
		outcome     reconcile.Outcome
		usedDefault bool
		modAdded    bool
	}{
		{
			name:        "mod added cell uses default",
			winning:     interior("000801:NewDungeons.esp", "NewDungeon01", nil),
			fallback:    fallback,
			outcome:     reconcile.OutcomePatched,
			usedDefault: true,
			modAdded:    true,
		},
		{
			name:        "mod added cell ignores direct reference match",
			winning:     interior("000801:NewDungeons.esp", "NewDungeon01", nil),
			reference:   []*plugin.Cell{interior("000801:NewDungeons.esp", "NewDungeon01", &plugin.CellLighting{FogNear: 99})},
			fallback:    fallback,
			outcome:     reconcile.OutcomePatched,
			usedDefault: true,
			modAdded:    true,
		},
		{
			name:        "reference cell without lighting uses default",
			winning:     interior("000200:Skyrim.esm", "Inn", nil),
			reference:   []*plugin.Cell{interior("000200:Skyrim.esm", "Inn", nil)},
			fallback:    fallback,
			outcome:     reconcile.OutcomePatched,
			usedDefault: true,
		},
		{
			name:     "no candidate and no default",
			winning:  interior("000801:NewDungeons.esp", "NewDungeon01", nil),
			outcome:  reconcile.OutcomeSkipped,
			modAdded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo := plugin.NewLinkCache(mod("NewDungeons.esp", tt.winning))
			ref := plugin.NewLinkCache(mod("True Light.esm", tt.reference...))

			plan, results := evaluateCells(t, NewCellAdapter(lo, ref, rules.DefaultCatalog(), tt.fallback), reconcile.Config{})

			r := results[tt.winning.FormKey.String()]
			assert.Equal(t, tt.outcome, r.Outcome)
			assert.Equal(t, tt.usedDefault, r.UsedDefault)
			assert.Equal(t, tt.modAdded, r.ModAdded)

			if tt.usedDefault {
				assert.Equal(t, 1, plan.Summary.UsingDefault)
				require.Len(t, plan.Actions, 1)
				payload := plan.Actions[0].Payload.(CellOverride)
				assert.Equal(t, fallbackLighting, payload.Lighting)
			}
			if tt.modAdded {
				assert.Equal(t, 1, plan.Summary.ModAdded)
			}
		})
	}
}

func TestCellAdapter_StrictFieldCheck(t *testing.T) {
	lo := plugin.NewLinkCache(mod("Skyrim.esm", interior("000200:Skyrim.esm", "Inn", nil)))
	ref := plugin.NewLinkCache(mod("True Light.esm", interior("000200:Skyrim.esm", "Inn", &plugin.CellLighting{FogNear: 1})))
	adapter := NewCellAdapter(lo, ref, rules.DefaultCatalog(), nil)

	_, strict := evaluateCells(t, adapter, reconcile.Config{StrictFieldCheck: true})
	assert.Equal(t, reconcile.OutcomeSkipped, strict["000200:Skyrim.esm"].Outcome)

	_, lenient := evaluateCells(t, adapter, reconcile.Config{})
	assert.Equal(t, reconcile.OutcomePatched, lenient["000200:Skyrim.esm"].Outcome)
}
