package reconcile

import (
	"context"
	"fmt"
	"sync"

	"lighting-patcher/core/plugin"
	"lighting-patcher/core/reconcile"
)

// PatchMutator applies cell and light actions to the output patch. It is
// the only writer of the patch.
type PatchMutator struct {
	mu    sync.Mutex
	patch *plugin.Patch
}

// NewPatchMutator creates a mutator writing into patch.
func NewPatchMutator(patch *plugin.Patch) *PatchMutator {
	return &PatchMutator{patch: patch}
}

// Apply implements reconcile.Mutator.
func (m *PatchMutator) Apply(ctx context.Context, action reconcile.Action) error {
	if err := validatePayload(action); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(action)
	return nil
}

// ApplyBatch implements reconcile.BatchMutator. Every payload is checked
// before the first one is applied, so a malformed batch leaves the patch
// untouched.
func (m *PatchMutator) ApplyBatch(ctx context.Context, actionType reconcile.ActionType, actions []reconcile.Action) error {
	for _, action := range actions {
		if action.Type != actionType {
			return fmt.Errorf("action %s has type %s in a %s batch", action.Key, action.Type, actionType)
		}
		if err := validatePayload(action); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.apply(action)
	}
	return nil
}

func validatePayload(action reconcile.Action) error {
	switch action.Type {
	case reconcile.ActionOverrideField:
		p, ok := action.Payload.(CellOverride)
		if !ok || p.Winning == nil {
			return fmt.Errorf("action %s: expected a cell override payload, got %T", action.Key, action.Payload)
		}
	case reconcile.ActionDuplicateRecord:
		p, ok := action.Payload.(LightForward)
		if !ok || p.Reference == nil {
			return fmt.Errorf("action %s: expected a light forward payload, got %T", action.Key, action.Payload)
		}
	default:
		return fmt.Errorf("action %s: unsupported action type %q", action.Key, action.Type)
	}
	return nil
}

// apply assumes a validated payload and m.mu held.
func (m *PatchMutator) apply(action reconcile.Action) {
	switch p := action.Payload.(type) {
	case CellOverride:
		override := m.patch.GetOrAddCellOverride(p.Winning)
		override.Lighting = p.Lighting.DeepCopy()
	case LightForward:
		m.patch.DuplicateLightAsNew(p.Reference)
	}
}
