package plugin

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ModType is the plugin container type, derived from the file extension.
type ModType string

const (
	// TypeMaster is a master plugin (.esm).
	TypeMaster ModType = "esm"
	// TypePlugin is a regular plugin (.esp).
	TypePlugin ModType = "esp"
	// TypeLight is a light master (.esl).
	TypeLight ModType = "esl"
)

// ModKey identifies a plugin by file name.
// Plugin file names are case-insensitive; use Equal or Index for comparisons.
type ModKey struct {
	Name string
	Type ModType
}

// ModKeyFromFileName parses "True Light.esm" into a ModKey.
func ModKeyFromFileName(fileName string) (ModKey, error) {
	fileName = strings.TrimSpace(fileName)
	ext := filepath.Ext(fileName)
	name := strings.TrimSuffix(fileName, ext)
	if name == "" {
		return ModKey{}, fmt.Errorf("invalid plugin file name %q", fileName)
	}

	switch ModType(strings.ToLower(strings.TrimPrefix(ext, "."))) {
	case TypeMaster:
		return ModKey{Name: name, Type: TypeMaster}, nil
	case TypePlugin:
		return ModKey{Name: name, Type: TypePlugin}, nil
	case TypeLight:
		return ModKey{Name: name, Type: TypeLight}, nil
	default:
		return ModKey{}, fmt.Errorf("invalid plugin extension %q in %q", ext, fileName)
	}
}

// MustModKey is ModKeyFromFileName for static tables and tests.
func MustModKey(fileName string) ModKey {
	key, err := ModKeyFromFileName(fileName)
	if err != nil {
		panic(err)
	}
	return key
}

// FileName returns the plugin file name, e.g. "Skyrim.esm".
func (k ModKey) FileName() string {
	if k.IsZero() {
		return ""
	}
	return k.Name + "." + string(k.Type)
}

// String implements fmt.Stringer.
func (k ModKey) String() string {
	return k.FileName()
}

// IsZero reports whether the key is unset.
func (k ModKey) IsZero() bool {
	return k.Name == "" && k.Type == ""
}

// Index returns the normalized lookup key used by maps.
func (k ModKey) Index() string {
	return strings.ToLower(k.FileName())
}

// Equal compares two keys case-insensitively.
func (k ModKey) Equal(other ModKey) bool {
	return k.Index() == other.Index()
}

// MarshalText implements encoding.TextMarshaler.
func (k ModKey) MarshalText() ([]byte, error) {
	return []byte(k.FileName()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ModKey) UnmarshalText(text []byte) error {
	parsed, err := ModKeyFromFileName(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// FormKey identifies one logical record: local ID plus the plugin that introduced it.
type FormKey struct {
	ID     uint32
	ModKey ModKey
}

// ParseFormKey parses "01A2B3:Skyrim.esm".
func ParseFormKey(s string) (FormKey, error) {
	idPart, modPart, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return FormKey{}, fmt.Errorf("invalid form key %q: expected ID:Plugin", s)
	}

	id, err := strconv.ParseUint(idPart, 16, 32)
	if err != nil {
		return FormKey{}, fmt.Errorf("invalid form key %q: %w", s, err)
	}
	if id > 0xFFFFFF {
		return FormKey{}, fmt.Errorf("invalid form key %q: id exceeds 24 bits", s)
	}

	mod, err := ModKeyFromFileName(modPart)
	if err != nil {
		return FormKey{}, fmt.Errorf("invalid form key %q: %w", s, err)
	}

	return FormKey{ID: uint32(id), ModKey: mod}, nil
}

// MustFormKey is ParseFormKey for static tables and tests.
func MustFormKey(s string) FormKey {
	fk, err := ParseFormKey(s)
	if err != nil {
		panic(err)
	}
	return fk
}

// String renders the key as "01A2B3:Skyrim.esm".
func (f FormKey) String() string {
	return fmt.Sprintf("%06X:%s", f.ID, f.ModKey.FileName())
}

// IsZero reports whether the key is unset.
func (f FormKey) IsZero() bool {
	return f.ID == 0 && f.ModKey.IsZero()
}

// Index returns the normalized lookup key used by maps.
func (f FormKey) Index() string {
	return fmt.Sprintf("%06X:%s", f.ID, f.ModKey.Index())
}

// Equal compares two keys, ignoring plugin name case.
func (f FormKey) Equal(other FormKey) bool {
	return f.ID == other.ID && f.ModKey.Equal(other.ModKey)
}

// MarshalText implements encoding.TextMarshaler.
func (f FormKey) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FormKey) UnmarshalText(text []byte) error {
	parsed, err := ParseFormKey(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
