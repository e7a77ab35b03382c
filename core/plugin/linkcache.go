package plugin

// Context is a record together with the plugin that supplied this version.
type Context[T Record] struct {
	ModKey ModKey
	Record T
}

// recordIndex holds every version of one record kind.
type recordIndex[T Record] struct {
	// versions maps a FormKey index to its versions, lowest priority first.
	versions map[string][]Context[T]
	// winning holds one context per FormKey in priority order.
	winning []Context[T]
}

func newRecordIndex[T Record](mods []*Mod, records func(*Mod) []T) recordIndex[T] {
	idx := recordIndex[T]{versions: make(map[string][]Context[T])}

	for _, m := range mods {
		for _, r := range records(m) {
			k := r.Key().Index()
			idx.versions[k] = append(idx.versions[k], Context[T]{ModKey: m.ModKey, Record: r})
		}
	}

	// Highest priority plugin first, document order within a plugin.
	seen := make(map[string]struct{}, len(idx.versions))
	for i := len(mods) - 1; i >= 0; i-- {
		for _, r := range records(mods[i]) {
			k := r.Key().Index()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			versions := idx.versions[k]
			idx.winning = append(idx.winning, versions[len(versions)-1])
		}
	}

	return idx
}

func (idx recordIndex[T]) resolve(fk FormKey) (Context[T], bool) {
	versions := idx.versions[fk.Index()]
	if len(versions) == 0 {
		return Context[T]{}, false
	}
	return versions[len(versions)-1], true
}

func (idx recordIndex[T]) origin(fk FormKey) (Context[T], bool) {
	versions := idx.versions[fk.Index()]
	if len(versions) == 0 {
		return Context[T]{}, false
	}
	return versions[0], true
}

func (idx recordIndex[T]) winningOverrides() []Context[T] {
	out := make([]Context[T], len(idx.winning))
	copy(out, idx.winning)
	return out
}

// LinkCache resolves records across an ordered set of plugins. It is
// immutable once built and safe for concurrent readers.
type LinkCache struct {
	mods       []ModKey
	cells      recordIndex[*Cell]
	lights     recordIndex[*Light]
	duplicates map[string][]*Light
}

// NewLinkCache indexes mods, given lowest priority first.
func NewLinkCache(mods ...*Mod) *LinkCache {
	c := &LinkCache{
		mods:       make([]ModKey, len(mods)),
		cells:      newRecordIndex(mods, func(m *Mod) []*Cell { return m.Cells }),
		lights:     newRecordIndex(mods, func(m *Mod) []*Light { return m.Lights }),
		duplicates: make(map[string][]*Light),
	}
	for i, m := range mods {
		c.mods[i] = m.ModKey
	}
	for _, winner := range c.lights.winning {
		if src := winner.Record.DuplicateOf; src != nil {
			c.duplicates[src.Index()] = append(c.duplicates[src.Index()], winner.Record)
		}
	}
	return c
}

// ModKeys returns the indexed plugins, lowest priority first.
func (c *LinkCache) ModKeys() []ModKey {
	out := make([]ModKey, len(c.mods))
	copy(out, c.mods)
	return out
}

// ResolveCell returns the winning version of a cell.
func (c *LinkCache) ResolveCell(fk FormKey) (*Cell, bool) {
	rec, ok := c.cells.resolve(fk)
	return rec.Record, ok
}

// ResolveCellContext returns the winning version of a cell and its plugin.
func (c *LinkCache) ResolveCellContext(fk FormKey) (Context[*Cell], bool) {
	return c.cells.resolve(fk)
}

// ResolveCellOrigin returns the lowest priority version of a cell.
func (c *LinkCache) ResolveCellOrigin(fk FormKey) (*Cell, bool) {
	rec, ok := c.cells.origin(fk)
	return rec.Record, ok
}

// WinningCells returns one winning context per cell, in priority order.
func (c *LinkCache) WinningCells() []Context[*Cell] {
	return c.cells.winningOverrides()
}

// ResolveLight returns the winning version of a light.
func (c *LinkCache) ResolveLight(fk FormKey) (*Light, bool) {
	rec, ok := c.lights.resolve(fk)
	return rec.Record, ok
}

// ResolveLightOrigin returns the lowest priority version of a light.
func (c *LinkCache) ResolveLightOrigin(fk FormKey) (*Light, bool) {
	rec, ok := c.lights.origin(fk)
	return rec.Record, ok
}

// WinningLights returns one winning context per light, in priority order.
func (c *LinkCache) WinningLights() []Context[*Light] {
	return c.lights.winningOverrides()
}

// LightDuplicatesOf returns winning lights that were duplicated from fk.
func (c *LinkCache) LightDuplicatesOf(fk FormKey) []*Light {
	return c.duplicates[fk.Index()]
}
