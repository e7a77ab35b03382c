// Package reconcile holds the two lighting engines as reconcile adapters.
//
// CellAdapter copies the lighting of a reference cell (or of the default
// cell) onto winning interior cells whose lighting differs. LightAdapter
// forwards reference lights, as new records, when the winning version is
// still the origin. Both only plan; PatchMutator writes the planned actions
// into the output patch.
package reconcile
