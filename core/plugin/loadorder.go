package plugin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Entry is one line of a plugins file.
type Entry struct {
	ModKey  ModKey
	Enabled bool
}

// ParsePluginsFile reads a plugins.txt style load order: one file name per
// line, "*" marks enabled plugins, "#" starts a comment.
func ParsePluginsFile(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		enabled := strings.HasPrefix(text, "*")
		key, err := ModKeyFromFileName(strings.TrimPrefix(text, "*"))
		if err != nil {
			return nil, fmt.Errorf("plugins file line %d: %w", line, err)
		}
		entries = append(entries, Entry{ModKey: key, Enabled: enabled})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read plugins file: %w", err)
	}
	return entries, nil
}

// WritePluginsFile writes entries in the format read by ParsePluginsFile.
func WritePluginsFile(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		prefix := ""
		if e.Enabled {
			prefix = "*"
		}
		if _, err := fmt.Fprintf(bw, "%s%s\n", prefix, e.ModKey.FileName()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Listing is a load order slot. Mod is nil when the plugin is disabled or
// listed without a document.
type Listing struct {
	ModKey  ModKey
	Enabled bool
	Mod     *Mod
}

// LoadOrder is the ordered set of listed plugins, lowest priority first.
type LoadOrder struct {
	listings []Listing
	index    map[string]int
}

// NewLoadOrder builds a load order. A plugin listed twice keeps its first slot.
func NewLoadOrder(listings ...Listing) *LoadOrder {
	lo := &LoadOrder{index: make(map[string]int, len(listings))}
	for _, l := range listings {
		if _, dup := lo.index[l.ModKey.Index()]; dup {
			continue
		}
		lo.index[l.ModKey.Index()] = len(lo.listings)
		lo.listings = append(lo.listings, l)
	}
	return lo
}

// Len returns the number of listings.
func (lo *LoadOrder) Len() int {
	return len(lo.listings)
}

// Listings returns a copy of the listings in load order.
func (lo *LoadOrder) Listings() []Listing {
	out := make([]Listing, len(lo.listings))
	copy(out, lo.listings)
	return out
}

// Get returns the listing for key.
func (lo *LoadOrder) Get(key ModKey) (Listing, bool) {
	i, ok := lo.index[key.Index()]
	if !ok {
		return Listing{}, false
	}
	return lo.listings[i], true
}

// IsActive reports whether key is listed and enabled.
func (lo *LoadOrder) IsActive(key ModKey) bool {
	l, ok := lo.Get(key)
	return ok && l.Enabled
}

// Loaded returns the document of an active plugin, if one was read.
func (lo *LoadOrder) Loaded(key ModKey) (*Mod, bool) {
	l, ok := lo.Get(key)
	if !ok || !l.Enabled || l.Mod == nil {
		return nil, false
	}
	return l.Mod, true
}

// Mods returns every loaded plugin in load order.
func (lo *LoadOrder) Mods() []*Mod {
	mods := make([]*Mod, 0, len(lo.listings))
	for _, l := range lo.listings {
		if l.Enabled && l.Mod != nil {
			mods = append(mods, l.Mod)
		}
	}
	return mods
}

// Keys returns the listed plugin keys in load order.
func (lo *LoadOrder) Keys() []ModKey {
	keys := make([]ModKey, len(lo.listings))
	for i, l := range lo.listings {
		keys[i] = l.ModKey
	}
	return keys
}

// Without returns a copy with the given plugins removed.
func (lo *LoadOrder) Without(keys ...ModKey) *LoadOrder {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k.Index()] = struct{}{}
	}
	kept := make([]Listing, 0, len(lo.listings))
	for _, l := range lo.listings {
		if _, ok := drop[l.ModKey.Index()]; !ok {
			kept = append(kept, l)
		}
	}
	return NewLoadOrder(kept...)
}

// Load reads the load order and every enabled plugin document from src.
// Implicit plugins are placed first and enabled when src has a document for
// them, whether or not the plugins file lists them.
func Load(ctx context.Context, src Source, implicit ...ModKey) (*LoadOrder, error) {
	entries, err := src.ReadLoadOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read load order from %s: %w", src.Name(), err)
	}

	var listings []Listing
	placed := make(map[string]struct{})

	for _, key := range implicit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mod, err := readMod(ctx, src, key)
		if err != nil {
			return nil, err
		}
		if mod == nil {
			continue
		}
		listings = append(listings, Listing{ModKey: key, Enabled: true, Mod: mod})
		placed[key.Index()] = struct{}{}
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := placed[e.ModKey.Index()]; ok {
			continue
		}
		listing := Listing{ModKey: e.ModKey, Enabled: e.Enabled}
		if e.Enabled {
			mod, err := readMod(ctx, src, e.ModKey)
			if err != nil {
				return nil, err
			}
			listing.Mod = mod
		}
		listings = append(listings, listing)
		placed[e.ModKey.Index()] = struct{}{}
	}

	return NewLoadOrder(listings...), nil
}

// readMod returns nil without error when the document does not exist.
func readMod(ctx context.Context, src Source, key ModKey) (*Mod, error) {
	mod, err := src.ReadMod(ctx, key)
	if errors.Is(err, ErrModNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %w", key, src.Name(), err)
	}
	if mod.ModKey.IsZero() {
		mod.ModKey = key
	}
	if !mod.ModKey.Equal(key) {
		return nil, fmt.Errorf("document for %s declares mod key %s", key, mod.ModKey)
	}
	return mod, nil
}
