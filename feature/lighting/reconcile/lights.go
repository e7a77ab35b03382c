package reconcile

import (
	"context"

	"lighting-patcher/core/plugin"
	"lighting-patcher/core/reconcile"
)

// LightForward is the payload of a light duplication.
type LightForward struct {
	Reference *plugin.Light
}

// LightAdapter forwards reference lights whose winning version is still the
// unmodified origin.
type LightAdapter struct {
	loadOrder *plugin.LinkCache
	reference *plugin.LinkCache
}

// NewLightAdapter creates the light engine.
func NewLightAdapter(loadOrder, reference *plugin.LinkCache) *LightAdapter {
	return &LightAdapter{loadOrder: loadOrder, reference: reference}
}

// Name implements reconcile.Adapter.
func (a *LightAdapter) Name() string { return "lights" }

// Candidates returns every winning light, in priority order.
func (a *LightAdapter) Candidates(ctx context.Context) ([]reconcile.Item, error) {
	winners := a.loadOrder.WinningLights()
	items := make([]reconcile.Item, len(winners))
	for i, w := range winners {
		items[i] = w
	}
	return items, nil
}

// Evaluate implements reconcile.Adapter. Comparisons use whole-record equality.
//
// An earlier forward counts as applied only while its winning version still
// matches the reference content. If another plugin overrides the forward and
// changes it, the reference version is forwarded again.
func (a *LightAdapter) Evaluate(item reconcile.Item, cfg reconcile.Config) (reconcile.Result, *reconcile.Action) {
	light := item.(plugin.Context[*plugin.Light]).Record

	result := reconcile.Result{
		Key:      light.FormKey.String(),
		Kind:     string(plugin.KindLight),
		EditorID: light.EditorID,
	}

	ref, ok := a.reference.ResolveLight(light.FormKey)
	if !ok {
		result.Outcome = reconcile.OutcomeNotInReference
		return result, nil
	}

	origin, ok := a.loadOrder.ResolveLightOrigin(light.FormKey)
	if !ok {
		result.Outcome = reconcile.OutcomeSkipped
		result.Reason = "origin not found"
		return result, nil
	}

	if !plugin.LightsEqual(light, origin) {
		result.Outcome = reconcile.OutcomeAlreadyModified
		result.Reason = "winning light differs from origin"
		return result, nil
	}

	if plugin.LightsEqual(light, ref) {
		result.Outcome = reconcile.OutcomeAlreadyPatched
		result.Reason = "winning light matches reference"
		return result, nil
	}

	for _, dup := range a.loadOrder.LightDuplicatesOf(light.FormKey) {
		if plugin.SameLightContent(dup, ref) {
			result.Outcome = reconcile.OutcomeAlreadyPatched
			result.Reason = "already forwarded as " + dup.FormKey.String()
			return result, nil
		}
	}

	result.Outcome = reconcile.OutcomePatched
	result.Reason = "forward reference light"
	return result, &reconcile.Action{
		Type:    reconcile.ActionDuplicateRecord,
		Key:     result.Key,
		Kind:    result.Kind,
		Reason:  result.Reason,
		Payload: LightForward{Reference: ref},
	}
}
