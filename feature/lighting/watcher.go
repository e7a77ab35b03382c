package lighting

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"lighting-patcher/core/plugin"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher triggers a callback when the plugins file or a plugin document in
// the data directory changes. Bursts of events are debounced into one call.
type Watcher struct {
	dir         string
	pluginsFile string
	ignore      map[string]struct{}
	debounce    time.Duration
	logger      *zap.Logger
	watcher     *fsnotify.Watcher
}

// NewWatcher starts watching dir. Files named in ignore (e.g. the patch's
// own documents) never trigger a run.
func NewWatcher(dir, pluginsFile string, ignore []string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	skip := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		skip[strings.ToLower(name)] = struct{}{}
	}

	return &Watcher{
		dir:         dir,
		pluginsFile: filepath.Base(pluginsFile),
		ignore:      skip,
		debounce:    debounce,
		logger:      logger,
		watcher:     fw,
	}, nil
}

// Close stops watching without running the loop.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls onChange after every settled burst of relevant changes until ctx
// is cancelled. Errors from onChange are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context) error) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var changed []string
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			changed = append(changed, filepath.Base(event.Name))
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error", zap.Error(err))

		case <-timer.C:
			w.logger.Info("Load order changed", zap.Strings("files", dedupe(changed)))
			changed = changed[:0]
			if err := onChange(ctx); err != nil {
				w.logger.Error("Patch run after change failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if _, skip := w.ignore[strings.ToLower(base)]; skip {
		return false
	}
	if strings.EqualFold(base, w.pluginsFile) {
		return true
	}
	_, ok := plugin.FormatFromPath(base)
	return ok
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
