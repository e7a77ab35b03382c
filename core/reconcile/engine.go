package reconcile

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ReconcileWithPlan evaluates every candidate of the adapter and returns a plan.
// It does NOT execute actions; use ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, adapter Adapter, cfg Config) (*Plan, error) {
	items, err := adapter.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s candidates: %w", adapter.Name(), err)
	}

	plan := &Plan{
		Adapter: adapter.Name(),
		Results: make([]Result, 0, len(items)),
		Actions: []Action{},
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, action := adapter.Evaluate(item, cfg)
		plan.Results = append(plan.Results, result)
		if action != nil {
			plan.Actions = append(plan.Actions, *action)
		}
	}

	plan.Summary = Summarize(plan.Results)
	return plan, nil
}

// ReconcileAll plans every adapter concurrently. Adapters only read shared
// state, so no synchronization is needed between them. Plans are returned in
// adapter order; the first failure cancels the others.
func ReconcileAll(ctx context.Context, cfg Config, adapters ...Adapter) ([]*Plan, error) {
	plans := make([]*Plan, len(adapters))
	g, gctx := errgroup.WithContext(ctx)

	for i, adapter := range adapters {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%s planning panicked: %v", adapter.Name(), r)
				}
			}()
			plan, err := ReconcileWithPlan(gctx, adapter, cfg)
			if err != nil {
				return err
			}
			plans[i] = plan
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

// Summarize counts outcomes. UsingDefault and ModAdded are counted on every
// result carrying the flag, whatever the outcome.
func Summarize(results []Result) Summary {
	var s Summary
	s.Seen = len(results)
	for _, r := range results {
		switch r.Outcome {
		case OutcomePatched:
			s.Patched++
		case OutcomeSkipped:
			s.Skipped++
		case OutcomeAlreadyPatched:
			s.AlreadyPatched++
		case OutcomeAlreadyModified:
			s.AlreadyModified++
		case OutcomeNotInReference:
			s.NotInReference++
		}
		if r.UsedDefault {
			s.UsingDefault++
		}
		if r.ModAdded {
			s.ModAdded++
		}
	}
	return s
}

// Total sums the summaries of plans.
func Total(plans []*Plan) Summary {
	var s Summary
	for _, p := range plans {
		if p != nil {
			s = s.Add(p.Summary)
		}
	}
	return s
}
