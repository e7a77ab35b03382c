package lighting

import (
	"context"
	"fmt"
	"time"

	"lighting-patcher/core/plugin"
	"lighting-patcher/core/reconcile"
	lightingAdp "lighting-patcher/feature/lighting/reconcile"
	"lighting-patcher/feature/lighting/rules"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// planCacheKey is the single PlanCache key; a service plans one load order.
const planCacheKey = "load_order"

// Options configures a Service.
type Options struct {
	Source    plugin.Source
	Sinks     []plugin.Sink
	Catalog   *rules.Catalog
	PatchKey  plugin.ModKey
	Reconcile reconcile.Config
	// PlanTTL caches dry-run plans served over HTTP. Zero disables caching.
	PlanTTL time.Duration
	Logger  *zap.Logger
}

// Service runs the lighting patch against one load order.
type Service struct {
	source   plugin.Source
	sinks    []plugin.Sink
	catalog  *rules.Catalog
	patchKey plugin.ModKey
	cfg      reconcile.Config
	cache    *reconcile.PlanCache
	logger   *zap.Logger
}

// NewService creates a new lighting service.
func NewService(opts Options) *Service {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = rules.DefaultCatalog()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:   opts.Source,
		sinks:    opts.Sinks,
		catalog:  catalog,
		patchKey: opts.PatchKey,
		cfg:      opts.Reconcile,
		cache:    reconcile.NewPlanCache(opts.PlanTTL),
		logger:   logger,
	}
}

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// session is one validated load order with its resolution caches.
type session struct {
	loadOrder *plugin.LoadOrder
	winning   *plugin.LinkCache
	reference *plugin.LinkCache
	fallback  *plugin.Cell
}

// open reads and validates the load order. The patch's own plugin is left
// out so every run regenerates the full patch.
func (s *Service) open(ctx context.Context, logger *zap.Logger) (*session, error) {
	lo, err := plugin.Load(ctx, s.source, s.catalog.Bases()...)
	if err != nil {
		return nil, err
	}
	lo = lo.Without(s.patchKey)

	if err := rules.Validate(lo, s.catalog); err != nil {
		return nil, err
	}

	refMods := rules.BuildReferenceSet(lo, s.catalog)
	sess := &session{
		loadOrder: lo,
		winning:   plugin.NewLinkCache(lo.Mods()...),
		reference: plugin.NewLinkCache(refMods...),
	}
	sess.fallback = rules.DefaultLightingCell(sess.reference)

	logger.Info("Load order ready",
		zap.String("source", s.source.Name()),
		zap.Int("plugins", lo.Len()),
		zap.Int("loaded", len(lo.Mods())),
		zap.Strings("reference", modNames(refMods)),
	)
	logFallback(logger, sess.fallback)
	return sess, nil
}

func logFallback(logger *zap.Logger, cell *plugin.Cell) {
	if cell == nil {
		logger.Warn("No default lighting cell found; mod-added cells will be skipped")
		return
	}
	l := cell.Lighting
	logger.Info("Using default lighting cell",
		zap.String("editor_id", cell.EditorID),
		zap.String("form_key", cell.FormKey.String()),
		zap.String("ambient", fmt.Sprintf("%d,%d,%d", l.AmbientColor.R, l.AmbientColor.G, l.AmbientColor.B)),
		zap.Float32("fog_near", l.FogNear),
		zap.Float32("fog_far", l.FogFar),
	)
}

func (s *Service) adapters(sess *session) []reconcile.Adapter {
	return []reconcile.Adapter{
		lightingAdp.NewCellAdapter(sess.winning, sess.reference, s.catalog, sess.fallback),
		lightingAdp.NewLightAdapter(sess.winning, sess.reference),
	}
}

// Plan plans a run without writing anything. Results are cached for the
// configured PlanTTL.
func (s *Service) Plan(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))

	plans, err := s.cache.GetOrBuild(ctx, planCacheKey, func(ctx context.Context) ([]*reconcile.Plan, error) {
		sess, err := s.open(ctx, logger)
		if err != nil {
			return nil, err
		}
		return reconcile.ReconcileAll(ctx, s.cfg, s.adapters(sess)...)
	})
	if err != nil {
		return nil, err
	}

	report := newReport(runID, s.patchKey, plans)
	report.DryRun = true
	return report, nil
}

// Run plans both engines, applies the plans to a fresh patch and writes it
// to every sink. Nothing is written unless every step before it succeeded.
// With DryRun set the patch is planned but neither applied nor written.
func (s *Service) Run(ctx context.Context) (report *Report, err error) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = fmt.Errorf("lighting run panicked: %v", r)
			logger.Error("Lighting run aborted", zap.Error(err))
		}
	}()

	sess, err := s.open(ctx, logger)
	if err != nil {
		return nil, err
	}

	patch := plugin.NewPatch(s.patchKey)
	mutator := lightingAdp.NewPatchMutator(patch)

	plans, applied, err := reconcile.ReconcileAndApply(ctx, mutator, s.cfg, s.adapters(sess)...)
	if err != nil {
		return nil, err
	}

	report = newReport(runID, s.patchKey, plans)
	report.Applied = applied
	report.DryRun = s.cfg.DryRun

	if !s.cfg.DryRun {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mod := patch.Mod(sess.loadOrder.Keys())
		written, err := s.write(ctx, logger, mod)
		if err != nil {
			return nil, err
		}
		report.Written = written
		s.cache.Invalidate()
	}

	logger.Info(fmt.Sprintf("Patched %d cells", report.CellsPatched))
	logger.Info(fmt.Sprintf("Patched %d lights", report.LightsPatched))
	logger.Info("Lighting run finished",
		zap.Bool("dry_run", report.DryRun),
		zap.Int("applied", applied),
		zap.Int("using_default", report.Summary.UsingDefault),
		zap.Int("mod_added", report.Summary.ModAdded),
		zap.Duration("took", time.Since(started)),
	)
	return report, nil
}

// write hands mod to every sink. Sinks that can stage are staged first and
// committed only after every other sink succeeded; on any failure, panics
// included, the staged documents are discarded.
func (s *Service) write(ctx context.Context, logger *zap.Logger, mod *plugin.Mod) ([]string, error) {
	type staged struct {
		sink  plugin.Sink
		write plugin.StagedWrite
	}
	var (
		pending []staged
		direct  []plugin.Sink
		written []string
	)
	defer func() {
		for _, p := range pending {
			p.write.Abort()
		}
	}()

	for _, sink := range s.sinks {
		stager, ok := sink.(plugin.Stager)
		if !ok {
			direct = append(direct, sink)
			continue
		}
		w, err := stager.StageMod(ctx, mod)
		if err != nil {
			return nil, fmt.Errorf("failed to stage patch for %s: %w", sink.Name(), err)
		}
		pending = append(pending, staged{sink: sink, write: w})
	}

	record := func(sink plugin.Sink, location string) {
		written = append(written, location)
		logger.Info("Patch written",
			zap.String("sink", sink.Name()),
			zap.String("location", location),
			zap.Int("records", mod.RecordCount()),
		)
	}

	for _, sink := range direct {
		location, err := sink.WriteMod(ctx, mod)
		if err != nil {
			return nil, fmt.Errorf("failed to write patch to %s: %w", sink.Name(), err)
		}
		record(sink, location)
	}

	for _, p := range pending {
		location, err := p.write.Commit(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to write patch to %s: %w", p.sink.Name(), err)
		}
		record(p.sink, location)
	}
	return written, nil
}

// Inspection describes a validated load order without planning it.
type Inspection struct {
	Source          string       `json:"source"`
	Plugins         int          `json:"plugins"`
	Loaded          int          `json:"loaded"`
	Primary         string       `json:"primary"`
	Reference       []string     `json:"reference"`
	ActiveTemplate  string       `json:"active_template,omitempty"`
	DefaultCell     *plugin.Cell `json:"default_cell,omitempty"`
	WinningCells    int          `json:"winning_cells"`
	WinningLights   int          `json:"winning_lights"`
	ReferenceCells  int          `json:"reference_cells"`
	ReferenceLights int          `json:"reference_lights"`
}

// Inspect validates the load order and describes the reference set.
func (s *Service) Inspect(ctx context.Context) (*Inspection, error) {
	logger := s.logger.With(zap.String("run_id", uuid.NewString()))
	sess, err := s.open(ctx, logger)
	if err != nil {
		return nil, err
	}

	out := &Inspection{
		Source:          s.source.Name(),
		Plugins:         sess.loadOrder.Len(),
		Loaded:          len(sess.loadOrder.Mods()),
		Primary:         s.catalog.Primary().FileName(),
		DefaultCell:     sess.fallback,
		WinningCells:    len(sess.winning.WinningCells()),
		WinningLights:   len(sess.winning.WinningLights()),
		ReferenceCells:  len(sess.reference.WinningCells()),
		ReferenceLights: len(sess.reference.WinningLights()),
	}
	for _, key := range sess.reference.ModKeys() {
		out.Reference = append(out.Reference, key.FileName())
	}
	for _, t := range s.catalog.Templates() {
		if sess.loadOrder.IsActive(t) {
			out.ActiveTemplate = t.FileName()
		}
	}
	return out, nil
}

func modNames(mods []*plugin.Mod) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.ModKey.FileName()
	}
	return names
}
