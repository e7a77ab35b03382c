package plugin

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// CellsEqual compares two cells. Without fields every field takes part;
// with fields only the named struct fields are compared (a field mask).
func CellsEqual(a, b *Cell, fields ...string) bool {
	return cmp.Equal(a, b, maskOptions(Cell{}, fields)...)
}

// LightsEqual compares two lights field by field, identity included.
func LightsEqual(a, b *Light) bool {
	return cmp.Equal(a, b)
}

// SameLightContent compares two lights ignoring identity and duplication provenance.
func SameLightContent(a, b *Light) bool {
	return cmp.Equal(a, b, cmpopts.IgnoreFields(Light{}, "FormKey", "DuplicateOf"))
}

// DiffCells renders a human readable diff restricted to fields, for logs.
func DiffCells(a, b *Cell, fields ...string) string {
	return cmp.Diff(a, b, maskOptions(Cell{}, fields)...)
}

// maskOptions ignores every field of typ that is not listed in keep.
func maskOptions(typ any, keep []string) []cmp.Option {
	if len(keep) == 0 {
		return nil
	}

	kept := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		kept[name] = struct{}{}
	}

	t := reflect.TypeOf(typ)
	var ignored []string
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Name
		if _, ok := kept[name]; !ok {
			ignored = append(ignored, name)
		}
	}
	if len(ignored) == 0 {
		return nil
	}

	return []cmp.Option{cmpopts.IgnoreFields(typ, ignored...)}
}
