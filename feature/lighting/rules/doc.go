// Package rules holds the decisions taken before any record is patched.
//
// A Catalog (TOML, with a built-in default) lists the plugins the patcher
// knows: base game masters, the primary lighting plugin, its addons and the
// mutually exclusive templates. From it:
//
//   - Validate rejects a load order without the primary plugin
//     (ErrMissingDependency) or with several templates (ErrConflictingConfiguration).
//   - BuildReferenceSet picks the active reference plugins in catalog order.
//   - DefaultLightingCell picks the fallback lighting cell of the reference set.
package rules
