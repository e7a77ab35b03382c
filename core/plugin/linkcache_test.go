package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interiorCell(fk string, editorID string, ambient uint8) *Cell {
	return &Cell{
		FormKey:  MustFormKey(fk),
		EditorID: editorID,
		Flags:    CellInterior,
		Lighting: &CellLighting{AmbientColor: Color{R: ambient, G: ambient, B: ambient}},
	}
}

func TestLinkCache_Resolve(t *testing.T) {
	skyrim := NewMod(MustModKey("Skyrim.esm"))
	skyrim.Cells = []*Cell{
		interiorCell("000100:Skyrim.esm", "CaveA", 10),
		interiorCell("000200:Skyrim.esm", "CaveB", 20),
	}

	ussep := NewMod(MustModKey("Unofficial Skyrim Special Edition Patch.esp"))
	ussep.Cells = []*Cell{interiorCell("000100:Skyrim.esm", "CaveA", 11)}

	tl := NewMod(MustModKey("True Light.esm"))
	tl.Cells = []*Cell{interiorCell("000100:Skyrim.esm", "CaveA", 12)}

	cache := NewLinkCache(skyrim, ussep, tl)

	winner, ok := cache.ResolveCell(MustFormKey("000100:Skyrim.esm"))
	require.True(t, ok)
	assert.Equal(t, uint8(12), winner.Lighting.AmbientColor.R)

	wctx, ok := cache.ResolveCellContext(MustFormKey("000100:skyrim.esm"))
	require.True(t, ok, "lookups are case-insensitive")
	assert.Equal(t, "True Light.esm", wctx.ModKey.FileName())

	origin, ok := cache.ResolveCellOrigin(MustFormKey("000100:Skyrim.esm"))
	require.True(t, ok)
	assert.Equal(t, uint8(10), origin.Lighting.AmbientColor.R)

	_, ok = cache.ResolveCell(MustFormKey("000300:Skyrim.esm"))
	assert.False(t, ok)

	assert.Len(t, cache.ModKeys(), 3)
}

func TestLinkCache_WinningCellsOrder(t *testing.T) {
	base := NewMod(MustModKey("Skyrim.esm"))
	base.Cells = []*Cell{
		interiorCell("000001:Skyrim.esm", "First", 1),
		interiorCell("000002:Skyrim.esm", "Second", 2),
	}

	mod := NewMod(MustModKey("Mod.esp"))
	mod.Cells = []*Cell{
		interiorCell("000800:Mod.esp", "New", 3),
		interiorCell("000002:Skyrim.esm", "Second", 4),
	}

	cache := NewLinkCache(base, mod)
	winners := cache.WinningCells()
	require.Len(t, winners, 3)

	// Highest priority plugin first, then document order.
	assert.Equal(t, "New", winners[0].Record.EditorID)
	assert.Equal(t, "Mod.esp", winners[0].ModKey.FileName())
	assert.Equal(t, "Second", winners[1].Record.EditorID)
	assert.Equal(t, uint8(4), winners[1].Record.Lighting.AmbientColor.R)
	assert.Equal(t, "First", winners[2].Record.EditorID)
	assert.Equal(t, "Skyrim.esm", winners[2].ModKey.FileName())

	// The returned slice is a copy.
	winners[0] = Context[*Cell]{}
	assert.Equal(t, "New", cache.WinningCells()[0].Record.EditorID)
}

func TestLinkCache_Lights(t *testing.T) {
	src := MustFormKey("000A00:Skyrim.esm")
	dup := MustFormKey("000800:TrueLightPatcher.esp")

	base := NewMod(MustModKey("Skyrim.esm"))
	base.Lights = []*Light{{FormKey: src, EditorID: "Torch", Radius: 256}}

	tl := NewMod(MustModKey("True Light.esm"))
	tl.Lights = []*Light{{FormKey: src, EditorID: "Torch", Radius: 512}}

	patch := NewMod(MustModKey("TrueLightPatcher.esp"))
	patch.Lights = []*Light{{FormKey: dup, EditorID: "Torch", Radius: 512, DuplicateOf: &src}}

	cache := NewLinkCache(base, tl, patch)

	winner, ok := cache.ResolveLight(src)
	require.True(t, ok)
	assert.Equal(t, uint32(512), winner.Radius)

	origin, ok := cache.ResolveLightOrigin(src)
	require.True(t, ok)
	assert.Equal(t, uint32(256), origin.Radius)

	assert.Len(t, cache.WinningLights(), 2)

	dups := cache.LightDuplicatesOf(src)
	require.Len(t, dups, 1)
	assert.True(t, dups[0].FormKey.Equal(dup))
	assert.Empty(t, cache.LightDuplicatesOf(dup))
}
