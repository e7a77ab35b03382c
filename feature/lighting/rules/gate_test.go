package rules

import (
	"errors"
	"testing"

	"lighting-patcher/core/plugin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(name string) plugin.Listing {
	key := plugin.MustModKey(name)
	return plugin.Listing{ModKey: key, Enabled: true, Mod: plugin.NewMod(key)}
}

func listedOnly(name string) plugin.Listing {
	return plugin.Listing{ModKey: plugin.MustModKey(name), Enabled: true}
}

func disabled(name string) plugin.Listing {
	return plugin.Listing{ModKey: plugin.MustModKey(name), Enabled: false}
}

func TestValidate(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name        string
		listings    []plugin.Listing
		wantErr     error
		wantPlugins []string
	}{
		{
			name:     "PrimaryOnly",
			listings: []plugin.Listing{loaded("Skyrim.esm"), loaded("True Light.esm")},
		},
		{
			name:     "OneTemplate",
			listings: []plugin.Listing{loaded("True Light.esm"), loaded("TL - Bright.esp")},
		},
		{
			name:     "DisabledTemplateIgnored",
			listings: []plugin.Listing{loaded("True Light.esm"), loaded("TL - Bright.esp"), disabled("TL - Nightmare.esp")},
		},
		{
			name:        "PrimaryMissing",
			listings:    []plugin.Listing{loaded("Skyrim.esm")},
			wantErr:     ErrMissingDependency,
			wantPlugins: []string{"True Light.esm"},
		},
		{
			name:        "PrimaryDisabled",
			listings:    []plugin.Listing{disabled("True Light.esm")},
			wantErr:     ErrMissingDependency,
			wantPlugins: []string{"True Light.esm"},
		},
		{
			name:        "PrimaryWithoutData",
			listings:    []plugin.Listing{listedOnly("True Light.esm")},
			wantErr:     ErrMissingDependency,
			wantPlugins: []string{"True Light.esm"},
		},
		{
			name: "TwoTemplates",
			listings: []plugin.Listing{
				loaded("True Light.esm"),
				loaded("TL - Nightmare.esp"),
				listedOnly("TL - Default.esp"),
			},
			wantErr:     ErrConflictingConfiguration,
			wantPlugins: []string{"TL - Default.esp", "TL - Nightmare.esp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(plugin.NewLoadOrder(tt.listings...), catalog)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			names := make([]string, len(verr.Plugins))
			for i, k := range verr.Plugins {
				names[i] = k.FileName()
			}
			assert.Equal(t, tt.wantPlugins, names, "offending plugins in catalog order")
			for _, n := range tt.wantPlugins {
				assert.Contains(t, err.Error(), n)
			}
		})
	}
}
