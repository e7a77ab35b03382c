package reconcile

import "context"

// Item is one record handed from an adapter's candidate list back to its
// Evaluate method. Adapters define the concrete type.
type Item any

// Adapter defines record-kind specific reconciliation logic. Adapters are
// read-only: they plan actions but never mutate the output themselves.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "cells", "lights").
	Name() string

	// Candidates returns the records to evaluate. The order must be
	// deterministic; results are reported in this order.
	Candidates(ctx context.Context) ([]Item, error)

	// Evaluate decides the outcome for one candidate and, when the outcome
	// requires it, the action to apply.
	Evaluate(item Item, cfg Config) (Result, *Action)
}

// Mutator applies planned actions to the output.
type Mutator interface {
	// Apply executes a single action.
	Apply(ctx context.Context, action Action) error
}

// BatchMutator is an optional Mutator extension that applies every action of
// one type in a single call.
type BatchMutator interface {
	ApplyBatch(ctx context.Context, actionType ActionType, actions []Action) error
}
