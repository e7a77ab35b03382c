package checks

import (
	"context"
	"errors"
	"fmt"

	"lighting-patcher/core/plugin"
	"lighting-patcher/feature/lighting/rules"
)

// PluginStatus is the state of one catalog plugin in the load order.
type PluginStatus struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Status   string `json:"status"` // "active", "disabled", "no_document", "absent"
}

// LoadOrderReport strictly types the result of a load order check.
type LoadOrderReport struct {
	Listed            int            `json:"listed"`
	Enabled           int            `json:"enabled"`
	MissingDocuments  []string       `json:"missing_documents"`
	BrokenDocuments   []string       `json:"broken_documents"`
	MissingMasters    []string       `json:"missing_masters"`
	MastersOutOfOrder []string       `json:"masters_out_of_order"`
	Catalog           []PluginStatus `json:"catalog"`
}

// Healthy reports whether every enabled plugin is loadable with its masters.
func (r *LoadOrderReport) Healthy() bool {
	return len(r.MissingDocuments) == 0 && len(r.BrokenDocuments) == 0 &&
		len(r.MissingMasters) == 0 && len(r.MastersOutOfOrder) == 0
}

// CheckLoadOrder reads every enabled plugin of src and verifies that its
// document exists and parses and that its masters load before it.
func CheckLoadOrder(ctx context.Context, src plugin.Source, catalog *rules.Catalog) (*LoadOrderReport, error) {
	entries, err := src.ReadLoadOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read load order: %w", err)
	}

	report := &LoadOrderReport{
		Listed:            len(entries),
		MissingDocuments:  []string{},
		BrokenDocuments:   []string{},
		MissingMasters:    []string{},
		MastersOutOfOrder: []string{},
	}

	// Base masters load first when present, listed or not.
	var order []plugin.Entry
	listed := make(map[string]plugin.Entry, len(entries))
	for _, e := range entries {
		listed[e.ModKey.Index()] = e
	}
	for _, base := range catalog.Bases() {
		if _, ok := listed[base.Index()]; !ok {
			order = append(order, plugin.Entry{ModKey: base, Enabled: true})
		}
	}
	order = append(order, entries...)

	position := make(map[string]int)
	loaded := make(map[string]*plugin.Mod)
	status := make(map[string]string)

	for i, e := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Enabled {
			status[e.ModKey.Index()] = "disabled"
			continue
		}
		_, isListed := listed[e.ModKey.Index()]
		if isListed {
			report.Enabled++
		}

		mod, err := src.ReadMod(ctx, e.ModKey)
		switch {
		case errors.Is(err, plugin.ErrModNotFound):
			if isListed {
				status[e.ModKey.Index()] = "no_document"
				report.MissingDocuments = append(report.MissingDocuments, e.ModKey.FileName())
			}
			continue
		case err != nil:
			status[e.ModKey.Index()] = "no_document"
			report.BrokenDocuments = append(report.BrokenDocuments, fmt.Sprintf("%s: %v", e.ModKey, err))
			continue
		}

		status[e.ModKey.Index()] = "active"
		position[e.ModKey.Index()] = i
		loaded[e.ModKey.Index()] = mod
	}

	for _, e := range order {
		mod, ok := loaded[e.ModKey.Index()]
		if !ok {
			continue
		}
		for _, master := range mod.Masters {
			at, present := position[master.Index()]
			switch {
			case !present:
				report.MissingMasters = append(report.MissingMasters,
					fmt.Sprintf("%s requires %s", e.ModKey, master))
			case at > position[e.ModKey.Index()]:
				report.MastersOutOfOrder = append(report.MastersOutOfOrder,
					fmt.Sprintf("%s loads before its master %s", e.ModKey, master))
			}
		}
	}

	for _, entry := range catalog.Plugins {
		s, ok := status[entry.Key.Index()]
		if !ok {
			s = "absent"
		}
		report.Catalog = append(report.Catalog, PluginStatus{
			Name:     entry.Name,
			Category: string(entry.Category),
			Status:   s,
		})
	}

	return report, nil
}
