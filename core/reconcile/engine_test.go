package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter evaluates string items through a lookup table.
type mockAdapter struct {
	name     string
	items    []Item
	outcomes map[string]Result
	listErr  error
	panicOn  string
	seenCfg  []Config
}

func (m *mockAdapter) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockAdapter) Candidates(ctx context.Context) ([]Item, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.items, nil
}

func (m *mockAdapter) Evaluate(item Item, cfg Config) (Result, *Action) {
	key := item.(string)
	if key == m.panicOn {
		panic("boom")
	}
	m.seenCfg = append(m.seenCfg, cfg)

	result, ok := m.outcomes[key]
	if !ok {
		result = Result{Outcome: OutcomeSkipped}
	}
	result.Key = key
	result.Kind = "TEST"

	if result.Outcome != OutcomePatched {
		return result, nil
	}
	return result, &Action{Type: ActionOverrideField, Key: key, Kind: "TEST", Payload: key}
}

func TestReconcileWithPlan(t *testing.T) {
	adapter := &mockAdapter{
		items: []Item{"A", "B", "C", "D"},
		outcomes: map[string]Result{
			"A": {Outcome: OutcomePatched, UsedDefault: true, ModAdded: true},
			"B": {Outcome: OutcomeAlreadyPatched},
			"C": {Outcome: OutcomePatched},
		},
	}

	plan, err := ReconcileWithPlan(context.Background(), adapter, Config{StrictFieldCheck: true})
	require.NoError(t, err)

	assert.Equal(t, "mock", plan.Adapter)
	require.Len(t, plan.Results, 4)
	assert.Equal(t, []string{"A", "B", "C", "D"}, []string{
		plan.Results[0].Key, plan.Results[1].Key, plan.Results[2].Key, plan.Results[3].Key,
	}, "results keep candidate order")

	require.Len(t, plan.Actions, 2)
	assert.Equal(t, "A", plan.Actions[0].Key)
	assert.Equal(t, "C", plan.Actions[1].Key)

	assert.Equal(t, Summary{
		Seen:           4,
		Patched:        2,
		Skipped:        1,
		AlreadyPatched: 1,
		UsingDefault:   1,
		ModAdded:       1,
	}, plan.Summary)

	for _, cfg := range adapter.seenCfg {
		assert.True(t, cfg.StrictFieldCheck, "config is passed to every evaluation")
	}
}

func TestReconcileWithPlan_Empty(t *testing.T) {
	plan, err := ReconcileWithPlan(context.Background(), &mockAdapter{}, Config{})
	require.NoError(t, err)
	assert.Empty(t, plan.Results)
	assert.NotNil(t, plan.Actions)
	assert.Equal(t, Summary{}, plan.Summary)
}

func TestReconcileWithPlan_CandidateError(t *testing.T) {
	adapter := &mockAdapter{listErr: errors.New("index unavailable")}

	_, err := ReconcileWithPlan(context.Background(), adapter, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index unavailable")
	assert.Contains(t, err.Error(), "mock")
}

func TestReconcileWithPlan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReconcileWithPlan(ctx, &mockAdapter{items: []Item{"A"}}, Config{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReconcileAll(t *testing.T) {
	cells := &mockAdapter{
		name:     "cells",
		items:    []Item{"C1", "C2"},
		outcomes: map[string]Result{"C1": {Outcome: OutcomePatched}},
	}
	lights := &mockAdapter{
		name:     "lights",
		items:    []Item{"L1"},
		outcomes: map[string]Result{"L1": {Outcome: OutcomeNotInReference}},
	}

	plans, err := ReconcileAll(context.Background(), Config{}, cells, lights)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "cells", plans[0].Adapter)
	assert.Equal(t, "lights", plans[1].Adapter)

	total := Total(plans)
	assert.Equal(t, 3, total.Seen)
	assert.Equal(t, 1, total.Patched)
	assert.Equal(t, 1, total.Skipped)
	assert.Equal(t, 1, total.NotInReference)
}

func TestReconcileAll_ErrorHandling(t *testing.T) {
	tests := []struct {
		name      string
		adapters  []Adapter
		expectErr string
	}{
		{
			name: "Candidate error",
			adapters: []Adapter{
				&mockAdapter{name: "ok", items: []Item{"A"}},
				&mockAdapter{name: "broken", listErr: errors.New("no index")},
			},
			expectErr: "no index",
		},
		{
			name: "Panic is converted",
			adapters: []Adapter{
				&mockAdapter{name: "explosive", items: []Item{"A", "B"}, panicOn: "B"},
			},
			expectErr: "explosive planning panicked: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans, err := ReconcileAll(context.Background(), Config{}, tt.adapters...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
			assert.Nil(t, plans)
		})
	}
}

func TestSummary_Add(t *testing.T) {
	a := Summary{Seen: 2, Patched: 1, UsingDefault: 1}
	b := Summary{Seen: 3, AlreadyModified: 2, ModAdded: 1}

	assert.Equal(t, Summary{Seen: 5, Patched: 1, AlreadyModified: 2, UsingDefault: 1, ModAdded: 1}, a.Add(b))
	assert.Equal(t, Summary{Seen: 2, Patched: 1, UsingDefault: 1}, a, "Add does not modify the receiver")
}
