package rules

import "lighting-patcher/core/plugin"

// DefaultLightingCell returns the first winning reference cell, highest
// priority plugin first, that is interior and carries lighting. It returns
// nil when the reference set has no such cell.
func DefaultLightingCell(ref *plugin.LinkCache) *plugin.Cell {
	for _, winner := range ref.WinningCells() {
		if winner.Record.IsInterior() && winner.Record.Lighting != nil {
			return winner.Record
		}
	}
	return nil
}
