// Package plugin is the record store the patcher works against.
//
// It models the pieces of a plugin-based game database the lighting patch
// needs: plugin identities (ModKey), record identities (FormKey), cell and
// light records, load orders, and the output patch.
//
// # Resolution
//
// A LinkCache indexes an ordered set of plugins (lowest priority first) and
// answers the questions an override-based database asks:
//   - ResolveCell / ResolveLight: the winning version of a record.
//   - ResolveCellOrigin / ResolveLightOrigin: the original, lowest priority version.
//   - WinningCells / WinningLights: one winning version per record, in priority order.
//
// # Output
//
// A Patch accumulates records for the generated plugin. Overrides are
// idempotent per FormKey; duplicated records receive new FormKeys owned by
// the patch and remember where they came from.
//
// # Documents
//
// Plugins are exchanged as JSON or YAML documents (DecodeMod, EncodeMod).
// Load orders are read from plugins.txt style files (ParsePluginsFile)
// through a Source.
//
// # Usage
//
//	lo, err := plugin.Load(ctx, source, plugin.MustModKey("Skyrim.esm"))
//	cache := plugin.NewLinkCache(lo.Mods()...)
//	for _, winner := range cache.WinningCells() {
//	    fmt.Println(winner.ModKey, winner.Record.EditorID)
//	}
package plugin
