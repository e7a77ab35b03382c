package rules

import (
	"os"
	"path/filepath"
	"testing"

	"lighting-patcher/core/plugin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, "True Light.esm", c.Primary().FileName())
	assert.Len(t, c.Bases(), 5)
	assert.Len(t, c.Templates(), 5)

	ext := c.Extensions()
	require.Len(t, ext, 9)
	assert.Equal(t, "True Light - Creation Club.esp", ext[0].FileName())
	assert.Equal(t, "TL - Default.esp", ext[4].FileName())
	assert.Equal(t, "TL - Nightmare.esp", ext[8].FileName())

	cat, ok := c.Category(plugin.MustModKey("tl - bright.esp"))
	assert.True(t, ok)
	assert.Equal(t, CategoryTemplate, cat)

	assert.True(t, c.IsCanonical(plugin.MustModKey("Skyrim.esm")))
	assert.True(t, c.IsCanonical(plugin.MustModKey("True Light.esm")))
	assert.False(t, c.IsCanonical(plugin.MustModKey("SomeDungeonMod.esp")))
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "NoPrimary",
			doc:  "[[plugins]]\nname = \"Skyrim.esm\"\ncategory = \"base\"\n",
			want: "exactly one primary",
		},
		{
			name: "TwoPrimaries",
			doc:  "[[plugins]]\nname = \"A.esm\"\ncategory = \"primary\"\n[[plugins]]\nname = \"B.esm\"\ncategory = \"primary\"\n",
			want: "found 2",
		},
		{
			name: "UnknownCategory",
			doc:  "[[plugins]]\nname = \"A.esm\"\ncategory = \"favourite\"\n",
			want: "unknown category",
		},
		{
			name: "Duplicate",
			doc:  "[[plugins]]\nname = \"A.esm\"\ncategory = \"primary\"\n[[plugins]]\nname = \"a.ESM\"\ncategory = \"addon\"\n",
			want: "twice",
		},
		{
			name: "BadName",
			doc:  "[[plugins]]\nname = \"readme.txt\"\ncategory = \"primary\"\n",
			want: "invalid plugin extension",
		},
		{
			name: "Malformed",
			doc:  "[[plugins]\n",
			want: "failed to parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, "True Light.esm", c.Primary().FileName())

	path := filepath.Join(t.TempDir(), "catalog.toml")
	doc := `
[[plugins]]
name = "Skyrim.esm"
category = "base"

[[plugins]]
name = "Lux.esp"
category = "primary"

[[plugins]]
name = "Lux - Dark.esp"
category = "template"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err = LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "Lux.esp", c.Primary().FileName())
	assert.Equal(t, []plugin.ModKey{plugin.MustModKey("Lux - Dark.esp")}, c.Templates())

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
