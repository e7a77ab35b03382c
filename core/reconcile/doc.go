// Package reconcile is a small plan/apply engine for record patchers.
//
// Reconciliation is split in two phases:
//
//  1. Planning: an Adapter lists candidate records and evaluates each one into
//     a Result (the outcome, for statistics) and, optionally, an Action. Adapters
//     are read-only, so ReconcileAll runs them concurrently.
//  2. Applying: ApplyPlan hands the planned actions to a Mutator, sequentially.
//     Mutators implementing BatchMutator receive all actions of a type at once.
//
// Each Plan carries its own Summary, computed from its results.
//
// # Usage Example
//
//	plans, err := reconcile.ReconcileAll(ctx, cfg, cellAdapter, lightAdapter)
//	if err != nil {
//	    return err
//	}
//	for _, plan := range plans {
//	    if _, err := reconcile.ApplyPlan(ctx, mutator, plan, cfg); err != nil {
//	        return err
//	    }
//	}
//
// PlanCache memoizes planning runs for read-only callers such as the HTTP API.
package reconcile
