package plugin

import "sort"

// FirstFormID is the first local ID handed out to new records.
const FirstFormID uint32 = 0x800

// Patch is the output plugin under construction. Records are only added,
// never removed, and each source record is copied in at most once.
type Patch struct {
	mod        *Mod
	nextID     uint32
	overrides  map[string]*Cell
	duplicates map[string]*Light
}

// NewPatch creates an empty patch plugin.
func NewPatch(key ModKey) *Patch {
	return &Patch{
		mod:        NewMod(key),
		nextID:     FirstFormID,
		overrides:  make(map[string]*Cell),
		duplicates: make(map[string]*Light),
	}
}

// ModKey returns the patch identity.
func (p *Patch) ModKey() ModKey {
	return p.mod.ModKey
}

// GetOrAddCellOverride returns the override of winning inside the patch,
// creating it from a deep copy on first use.
func (p *Patch) GetOrAddCellOverride(winning *Cell) *Cell {
	k := winning.FormKey.Index()
	if existing, ok := p.overrides[k]; ok {
		return existing
	}
	override := winning.DeepCopy()
	p.overrides[k] = override
	p.mod.Cells = append(p.mod.Cells, override)
	return override
}

// DuplicateLightAsNew copies src under a new FormKey owned by the patch.
// A second call for the same src returns the first copy.
func (p *Patch) DuplicateLightAsNew(src *Light) *Light {
	k := src.FormKey.Index()
	if existing, ok := p.duplicates[k]; ok {
		return existing
	}
	dup := src.DeepCopy()
	dup.FormKey = FormKey{ID: p.nextID, ModKey: p.mod.ModKey}
	origin := src.FormKey
	if src.DuplicateOf != nil {
		origin = *src.DuplicateOf
	}
	dup.DuplicateOf = &origin
	p.nextID++

	p.duplicates[k] = dup
	p.mod.Lights = append(p.mod.Lights, dup)
	return dup
}

// Len returns the number of records in the patch.
func (p *Patch) Len() int {
	return p.mod.RecordCount()
}

// Mod finalizes the patch and returns it. Masters are the plugins the patch
// references, ordered by their position in loadOrder; unknown plugins follow
// alphabetically.
func (p *Patch) Mod(loadOrder []ModKey) *Mod {
	referenced := make(map[string]ModKey)
	add := func(fk *FormKey) {
		if fk == nil || fk.ModKey.Equal(p.mod.ModKey) {
			return
		}
		referenced[fk.ModKey.Index()] = fk.ModKey
	}

	for _, c := range p.mod.Cells {
		add(&c.FormKey)
		add(c.LightingTemplate)
		add(c.Water)
		add(c.ImageSpace)
		add(c.AcousticSpace)
		add(c.Music)
		add(c.Location)
	}
	for _, l := range p.mod.Lights {
		add(&l.FormKey)
		add(l.Sound)
	}

	masters := make([]ModKey, 0, len(referenced))
	for _, key := range loadOrder {
		if m, ok := referenced[key.Index()]; ok {
			masters = append(masters, m)
			delete(referenced, key.Index())
		}
	}
	rest := make([]ModKey, 0, len(referenced))
	for _, m := range referenced {
		rest = append(rest, m)
	}
	sort.Slice(rest, func(i, j int) bool {
		return rest[i].Index() < rest[j].Index()
	})

	p.mod.Masters = append(masters, rest...)
	return p.mod
}
