// Package lighting orchestrates the lighting patch.
//
// A run reads the load order from a plugin.Source, validates it against the
// plugin catalog, builds the reference set and the default lighting cell,
// plans the cell and light engines concurrently and applies both plans to a
// fresh patch. The patch is handed to the sinks only after every plan was
// applied, so a failed run never leaves a partial patch behind.
//
// # Surfaces
//
//   - Service: Plan (dry run, cached), Run and Inspect.
//   - Handler: GET /lighting/plan, POST /lighting/patch, GET /lighting/reference.
//   - Watcher: reruns the patch when the data directory changes.
//   - Report: per-engine counts, rendered as a table by WriteSummary.
//
// # Usage
//
//	svc := lighting.NewService(lighting.Options{
//	    Source:   datastore.NewDirSource("./Data", "plugins.txt"),
//	    Sinks:    []plugin.Sink{datastore.NewDirSink("./Output", plugin.FormatJSON)},
//	    PatchKey: plugin.MustModKey("TrueLightPatcher.esp"),
//	    Logger:   log,
//	})
//	report, err := svc.Run(ctx)
package lighting
