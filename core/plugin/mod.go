package plugin

// Mod is one plugin document: its identity, masters and records.
type Mod struct {
	ModKey  ModKey   `json:"mod_key" yaml:"mod_key"`
	Masters []ModKey `json:"masters,omitempty" yaml:"masters,omitempty"`
	Cells   []*Cell  `json:"cells,omitempty" yaml:"cells,omitempty"`
	Lights  []*Light `json:"lights,omitempty" yaml:"lights,omitempty"`
}

// NewMod creates an empty plugin.
func NewMod(key ModKey) *Mod {
	return &Mod{ModKey: key}
}

// RecordCount returns the number of records of every kind.
func (m *Mod) RecordCount() int {
	return len(m.Cells) + len(m.Lights)
}
