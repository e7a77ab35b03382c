package reconcile

// Outcome classifies what the engine decided for one record.
type Outcome string

const (
	// OutcomePatched means an action was planned for the record.
	OutcomePatched Outcome = "patched"
	// OutcomeSkipped means the record could not be evaluated (no candidate, no origin, empty field).
	OutcomeSkipped Outcome = "skipped"
	// OutcomeAlreadyPatched means the record already matches its candidate.
	OutcomeAlreadyPatched Outcome = "already_patched"
	// OutcomeAlreadyModified means another plugin changed the record; it is left alone.
	OutcomeAlreadyModified Outcome = "already_modified"
	// OutcomeNotInReference means the reference set has no version of the record.
	OutcomeNotInReference Outcome = "not_in_reference"
)

// Result is the reconciliation output for a single record.
type Result struct {
	// Key is the record identifier, e.g. "01A2B3:Skyrim.esm".
	Key string `json:"key"`

	// Kind is the record kind, e.g. "CELL".
	Kind string `json:"kind"`

	// EditorID is the editor id of the winning record, if any.
	EditorID string `json:"editor_id,omitempty"`

	// Outcome is the decision taken for the record.
	Outcome Outcome `json:"outcome"`

	// UsedDefault is set when the fallback candidate was used.
	UsedDefault bool `json:"used_default,omitempty"`

	// ModAdded is set when the record was introduced by a non-canonical plugin.
	ModAdded bool `json:"mod_added,omitempty"`

	// Reason is a short human readable explanation.
	Reason string `json:"reason,omitempty"`
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionOverrideField overrides one field of the winning record in the output.
	ActionOverrideField ActionType = "override_field"
	// ActionDuplicateRecord copies a record into the output under a new identifier.
	ActionDuplicateRecord ActionType = "duplicate_record"
)

// Action represents a planned mutation of the output.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the record identifier.
	Key string `json:"key"`

	// Kind is the record kind.
	Kind string `json:"kind"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Payload carries what the mutator needs to perform the action.
	// Adapters define the concrete type.
	Payload any `json:"-"`
}

// Summary provides aggregate counts for a plan. It is a value; plans own
// their copy and never share counters.
type Summary struct {
	Seen            int `json:"seen"`
	Patched         int `json:"patched"`
	Skipped         int `json:"skipped"`
	AlreadyPatched  int `json:"already_patched"`
	AlreadyModified int `json:"already_modified"`
	NotInReference  int `json:"not_in_reference"`
	UsingDefault    int `json:"using_default"`
	ModAdded        int `json:"mod_added"`
}

// Add returns the field-wise sum of s and o.
func (s Summary) Add(o Summary) Summary {
	return Summary{
		Seen:            s.Seen + o.Seen,
		Patched:         s.Patched + o.Patched,
		Skipped:         s.Skipped + o.Skipped,
		AlreadyPatched:  s.AlreadyPatched + o.AlreadyPatched,
		AlreadyModified: s.AlreadyModified + o.AlreadyModified,
		NotInReference:  s.NotInReference + o.NotInReference,
		UsingDefault:    s.UsingDefault + o.UsingDefault,
		ModAdded:        s.ModAdded + o.ModAdded,
	}
}

// Plan contains reconciliation results and planned actions of one adapter.
type Plan struct {
	// Adapter is the name of the adapter that produced the plan.
	Adapter string `json:"adapter"`

	// Results contains one entry per evaluated record, in candidate order.
	Results []Result `json:"results"`

	// Actions contains planned mutation operations.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Config controls engine strategy and execution.
type Config struct {
	// StrictFieldCheck skips records whose mergeable field is empty.
	StrictFieldCheck bool `mapstructure:"strict_field_check" default:"false"`

	// DryRun plans without applying anything.
	DryRun bool `mapstructure:"dry_run" default:"false"`
}
