package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatch_GetOrAddCellOverride(t *testing.T) {
	p := NewPatch(MustModKey("TrueLightPatcher.esp"))
	winner := interiorCell("000100:Skyrim.esm", "Cave", 10)

	override := p.GetOrAddCellOverride(winner)
	require.NotSame(t, winner, override)
	assert.True(t, CellsEqual(winner, override))

	override.Lighting.AmbientColor.R = 99
	assert.Equal(t, uint8(10), winner.Lighting.AmbientColor.R, "override is a deep copy")

	again := p.GetOrAddCellOverride(winner)
	assert.Same(t, override, again)
	assert.Equal(t, 1, p.Len())
}

func TestPatch_DuplicateLightAsNew(t *testing.T) {
	key := MustModKey("TrueLightPatcher.esp")
	p := NewPatch(key)

	torch := &Light{FormKey: MustFormKey("000A00:Skyrim.esm"), EditorID: "Torch", Radius: 512}
	candle := &Light{FormKey: MustFormKey("000A01:Skyrim.esm"), EditorID: "Candle", Radius: 128}

	first := p.DuplicateLightAsNew(torch)
	assert.Equal(t, FormKey{ID: FirstFormID, ModKey: key}, first.FormKey)
	require.NotNil(t, first.DuplicateOf)
	assert.True(t, first.DuplicateOf.Equal(torch.FormKey))
	assert.True(t, SameLightContent(torch, first))
	assert.Nil(t, torch.DuplicateOf, "source is untouched")

	second := p.DuplicateLightAsNew(candle)
	assert.Equal(t, FirstFormID+1, second.FormKey.ID)

	assert.Same(t, first, p.DuplicateLightAsNew(torch))
	assert.Equal(t, 2, p.Len())
}

func TestPatch_DuplicateKeepsOriginalProvenance(t *testing.T) {
	origin := MustFormKey("000A00:Skyrim.esm")
	earlier := &Light{FormKey: MustFormKey("000800:Old.esp"), DuplicateOf: &origin}

	p := NewPatch(MustModKey("TrueLightPatcher.esp"))
	dup := p.DuplicateLightAsNew(earlier)
	assert.True(t, dup.DuplicateOf.Equal(origin))
}

func TestPatch_ModMasters(t *testing.T) {
	key := MustModKey("TrueLightPatcher.esp")
	p := NewPatch(key)

	cell := interiorCell("000100:Skyrim.esm", "Cave", 10)
	tmpl := MustFormKey("000900:True Light.esm")
	cell.LightingTemplate = &tmpl
	p.GetOrAddCellOverride(cell)

	sound := MustFormKey("000010:Dawnguard.esm")
	p.DuplicateLightAsNew(&Light{FormKey: MustFormKey("000A00:Zeta.esp"), Sound: &sound})

	loadOrder := []ModKey{
		MustModKey("Skyrim.esm"),
		MustModKey("Update.esm"),
		MustModKey("Dawnguard.esm"),
		MustModKey("True Light.esm"),
	}

	mod := p.Mod(loadOrder)
	assert.Equal(t, key, mod.ModKey)
	assert.Equal(t, []ModKey{
		MustModKey("Skyrim.esm"),
		MustModKey("Dawnguard.esm"),
		MustModKey("True Light.esm"),
	}, mod.Masters, "duplication provenance and unreferenced plugins are not masters")
	assert.Len(t, mod.Cells, 1)
	assert.Len(t, mod.Lights, 1)
}

func TestPatch_ModMastersOutsideLoadOrder(t *testing.T) {
	p := NewPatch(MustModKey("TrueLightPatcher.esp"))
	p.GetOrAddCellOverride(interiorCell("000100:b.esp", "B", 1))
	p.GetOrAddCellOverride(interiorCell("000100:A.esp", "A", 1))

	mod := p.Mod(nil)
	require.Len(t, mod.Masters, 2)
	assert.Equal(t, "A.esp", mod.Masters[0].FileName())
	assert.Equal(t, "b.esp", mod.Masters[1].FileName())
}
