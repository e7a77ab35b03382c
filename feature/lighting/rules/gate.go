package rules

import (
	"errors"
	"fmt"
	"strings"

	"lighting-patcher/core/plugin"
)

var (
	// ErrMissingDependency is returned when the primary plugin is not active
	// or has no data.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrConflictingConfiguration is returned when more than one template
	// plugin is active.
	ErrConflictingConfiguration = errors.New("conflicting configuration")
)

// ValidationError names the plugins that failed validation.
type ValidationError struct {
	Err     error
	Plugins []plugin.ModKey
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the load order before anything is planned. It fails with
// ErrMissingDependency when the primary plugin is absent, disabled or listed
// without data, and with ErrConflictingConfiguration when two or more
// templates are active. Zero or one active template is fine.
func Validate(lo *plugin.LoadOrder, catalog *Catalog) error {
	primary := catalog.Primary()
	if _, ok := lo.Loaded(primary); !ok {
		return &ValidationError{
			Err:     ErrMissingDependency,
			Plugins: []plugin.ModKey{primary},
			Message: fmt.Sprintf("'%s' cannot be found; make sure it is installed and enabled", primary),
		}
	}

	var active []plugin.ModKey
	for _, t := range catalog.Templates() {
		if lo.IsActive(t) {
			active = append(active, t)
		}
	}
	if len(active) > 1 {
		names := make([]string, len(active))
		for i, k := range active {
			names[i] = k.FileName()
		}
		return &ValidationError{
			Err:     ErrConflictingConfiguration,
			Plugins: active,
			Message: fmt.Sprintf("multiple lighting template plugins are active: %s; choose only one", strings.Join(names, ", ")),
		}
	}

	return nil
}
