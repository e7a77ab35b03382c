package rules

import (
	_ "embed"
	"fmt"
	"os"

	"lighting-patcher/core/plugin"

	"github.com/pelletier/go-toml/v2"
)

//go:embed catalog.toml
var defaultCatalog []byte

// Category is the role a plugin plays for the patcher.
type Category string

const (
	CategoryBase     Category = "base"
	CategoryPrimary  Category = "primary"
	CategoryAddon    Category = "addon"
	CategoryTemplate Category = "template"
)

// CatalogEntry is one known plugin.
type CatalogEntry struct {
	Name     string        `toml:"name"`
	Category Category      `toml:"category"`
	Key      plugin.ModKey `toml:"-"`
}

// Catalog maps known plugin names to their category. Entry order is the
// reference order used when building the reference set.
type Catalog struct {
	Plugins []CatalogEntry `toml:"plugins"`

	primary plugin.ModKey
	index   map[string]Category
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog file. An empty path returns the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a TOML catalog. Exactly one primary
// plugin is required and names must be unique.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c.index = make(map[string]Category, len(c.Plugins))
	primaries := 0
	for i := range c.Plugins {
		e := &c.Plugins[i]
		key, err := plugin.ModKeyFromFileName(e.Name)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		switch e.Category {
		case CategoryBase, CategoryAddon, CategoryTemplate:
		case CategoryPrimary:
			primaries++
			c.primary = key
		default:
			return nil, fmt.Errorf("catalog entry %s: unknown category %q", e.Name, e.Category)
		}
		if _, dup := c.index[key.Index()]; dup {
			return nil, fmt.Errorf("catalog lists %s twice", e.Name)
		}
		e.Key = key
		c.index[key.Index()] = e.Category
	}

	if primaries != 1 {
		return nil, fmt.Errorf("catalog must have exactly one primary plugin, found %d", primaries)
	}
	return &c, nil
}

// Primary returns the required primary plugin.
func (c *Catalog) Primary() plugin.ModKey {
	return c.primary
}

// Category returns the category of key, if the catalog knows it.
func (c *Catalog) Category(key plugin.ModKey) (Category, bool) {
	cat, ok := c.index[key.Index()]
	return cat, ok
}

// IsCanonical reports whether records introduced by key count as native to
// the reference universe. Every catalog plugin is canonical.
func (c *Catalog) IsCanonical(key plugin.ModKey) bool {
	_, ok := c.index[key.Index()]
	return ok
}

// Bases returns the base game masters in catalog order.
func (c *Catalog) Bases() []plugin.ModKey {
	return c.keys(CategoryBase)
}

// Templates returns the mutually exclusive template plugins in catalog order.
func (c *Catalog) Templates() []plugin.ModKey {
	return c.keys(CategoryTemplate)
}

// Extensions returns addons and templates in catalog order.
func (c *Catalog) Extensions() []plugin.ModKey {
	return c.keys(CategoryAddon, CategoryTemplate)
}

func (c *Catalog) keys(categories ...Category) []plugin.ModKey {
	var out []plugin.ModKey
	for _, e := range c.Plugins {
		for _, cat := range categories {
			if e.Category == cat {
				out = append(out, e.Key)
				break
			}
		}
	}
	return out
}
