package plugin

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a plugin document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// documentExtensions lists the extensions probed for a plugin document, in order.
var documentExtensions = []string{".json", ".yaml", ".yml"}

// DocumentExtensions returns the supported document extensions, in probe order.
func DocumentExtensions() []string {
	out := make([]string, len(documentExtensions))
	copy(out, documentExtensions)
	return out
}

// FormatFromPath derives the document format from a file or object name.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// DocumentName returns the document file name of a plugin, e.g. "Skyrim.esm.json".
func DocumentName(key ModKey, format Format) string {
	return key.FileName() + "." + string(format)
}

// DecodeMod reads one plugin document.
func DecodeMod(r io.Reader, format Format) (*Mod, error) {
	var mod Mod
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&mod); err != nil {
			return nil, fmt.Errorf("failed to parse plugin JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&mod); err != nil {
			return nil, fmt.Errorf("failed to parse plugin YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}

	if err := validateMod(&mod); err != nil {
		return nil, err
	}
	return &mod, nil
}

// EncodeMod writes one plugin document.
func EncodeMod(w io.Writer, mod *Mod, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(mod); err != nil {
			return fmt.Errorf("failed to marshal plugin JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(mod); err != nil {
			return fmt.Errorf("failed to marshal plugin YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported document format %q", format)
	}
}

func validateMod(mod *Mod) error {
	for i, c := range mod.Cells {
		if c == nil || c.FormKey.IsZero() {
			return fmt.Errorf("cell #%d of %s has no form key", i, mod.ModKey)
		}
	}
	for i, l := range mod.Lights {
		if l == nil || l.FormKey.IsZero() {
			return fmt.Errorf("light #%d of %s has no form key", i, mod.ModKey)
		}
	}
	return nil
}
