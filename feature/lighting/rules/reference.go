package rules

import "lighting-patcher/core/plugin"

// BuildReferenceSet returns the reference plugins: the primary plugin
// followed by every catalog addon and template that is active and loaded,
// in catalog order. Call Validate first; a missing primary is left out.
func BuildReferenceSet(lo *plugin.LoadOrder, catalog *Catalog) []*plugin.Mod {
	var mods []*plugin.Mod
	if primary, ok := lo.Loaded(catalog.Primary()); ok {
		mods = append(mods, primary)
	}
	for _, key := range catalog.Extensions() {
		if mod, ok := lo.Loaded(key); ok {
			mods = append(mods, mod)
		}
	}
	return mods
}
