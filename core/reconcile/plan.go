package reconcile

import (
	"context"
	"fmt"
)

// ApplyPlan executes the actions in a plan, in plan order per action type.
// Returns the number of actions executed and any error encountered.
// Nothing is executed when cfg.DryRun is set.
func ApplyPlan(ctx context.Context, mutator Mutator, plan *Plan, cfg Config) (executed int, err error) {
	if cfg.DryRun || plan == nil {
		return 0, nil
	}

	// Group actions by type, keeping first-seen type order.
	var order []ActionType
	grouped := make(map[ActionType][]Action)
	for _, action := range plan.Actions {
		if _, ok := grouped[action.Type]; !ok {
			order = append(order, action.Type)
		}
		grouped[action.Type] = append(grouped[action.Type], action)
	}

	batcher, canBatch := mutator.(BatchMutator)

	for _, actionType := range order {
		if err := ctx.Err(); err != nil {
			return executed, err
		}
		actions := grouped[actionType]

		if canBatch {
			if err := batcher.ApplyBatch(ctx, actionType, actions); err != nil {
				return executed, fmt.Errorf("failed to apply %s batch: %w", actionType, err)
			}
			executed += len(actions)
			continue
		}

		for _, action := range actions {
			if err := mutator.Apply(ctx, action); err != nil {
				return executed, fmt.Errorf("failed to apply %s to %s: %w", action.Type, action.Key, err)
			}
			executed++
		}
	}

	return executed, nil
}

// ReconcileAndApply plans every adapter concurrently, then applies the plans
// sequentially in adapter order. No action is applied unless every adapter
// planned successfully.
func ReconcileAndApply(ctx context.Context, mutator Mutator, cfg Config, adapters ...Adapter) ([]*Plan, int, error) {
	plans, err := ReconcileAll(ctx, cfg, adapters...)
	if err != nil {
		return nil, 0, err
	}

	total := 0
	for _, plan := range plans {
		executed, err := ApplyPlan(ctx, mutator, plan, cfg)
		total += executed
		if err != nil {
			return plans, total, err
		}
	}
	return plans, total, nil
}
