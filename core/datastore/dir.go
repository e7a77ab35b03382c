package datastore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"lighting-patcher/core/plugin"

	"github.com/gofrs/flock"
)

// lockFileName guards concurrent writers of one output directory.
const lockFileName = ".lighting-patcher.lock"

// lockRetry is how often a blocked writer retries the output lock.
const lockRetry = 100 * time.Millisecond

// DirSource reads the load order and plugin documents from a directory.
type DirSource struct {
	dataDir     string
	pluginsFile string

	mu      sync.Mutex
	names   map[string]string
	listErr error
}

// NewDirSource creates a source over dataDir. A relative pluginsFile is
// resolved against dataDir.
func NewDirSource(dataDir, pluginsFile string) *DirSource {
	if !filepath.IsAbs(pluginsFile) {
		pluginsFile = filepath.Join(dataDir, pluginsFile)
	}
	return &DirSource{dataDir: dataDir, pluginsFile: pluginsFile}
}

// Name implements plugin.Source.
func (s *DirSource) Name() string { return plugin.SourceDir }

// PluginsFile returns the resolved plugins file path.
func (s *DirSource) PluginsFile() string { return s.pluginsFile }

// ReadLoadOrder implements plugin.Source. Every call rescans the data
// directory, so documents added since the last run are found.
func (s *DirSource) ReadLoadOrder(ctx context.Context) ([]plugin.Entry, error) {
	s.mu.Lock()
	s.names, s.listErr = nil, nil
	s.mu.Unlock()

	f, err := os.Open(s.pluginsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open plugins file: %w", err)
	}
	defer f.Close()

	return plugin.ParsePluginsFile(f)
}

// ReadMod implements plugin.Source. Document names are matched
// case-insensitively, as plugin file names are.
func (s *DirSource) ReadMod(ctx context.Context, key plugin.ModKey) (*plugin.Mod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names, err := s.index()
	if err != nil {
		return nil, err
	}

	for _, ext := range plugin.DocumentExtensions() {
		name, ok := names[strings.ToLower(key.FileName()+ext)]
		if !ok {
			continue
		}
		return readDocument(filepath.Join(s.dataDir, name))
	}
	return nil, plugin.ErrModNotFound
}

// index maps lowercased document names to their on-disk names. The listing
// is cached until the next ReadLoadOrder.
func (s *DirSource) index() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.names != nil || s.listErr != nil {
		return s.names, s.listErr
	}

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		s.listErr = fmt.Errorf("failed to list data dir %s: %w", s.dataDir, err)
		return nil, s.listErr
	}

	s.names = make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := plugin.FormatFromPath(e.Name()); ok {
			s.names[strings.ToLower(e.Name())] = e.Name()
		}
	}
	return s.names, nil
}

func readDocument(path string) (*plugin.Mod, error) {
	format, ok := plugin.FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported document %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	mod, err := plugin.DecodeMod(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return mod, nil
}

// DirSink writes plugin documents into a directory.
type DirSink struct {
	outputDir string
	format    plugin.Format
}

// NewDirSink creates a sink writing documents of the given format into outputDir.
func NewDirSink(outputDir string, format plugin.Format) *DirSink {
	return &DirSink{outputDir: outputDir, format: format}
}

// Name implements plugin.Sink.
func (s *DirSink) Name() string { return plugin.SourceDir }

// WriteMod implements plugin.Sink by staging and committing at once.
func (s *DirSink) WriteMod(ctx context.Context, mod *plugin.Mod) (string, error) {
	staged, err := s.StageMod(ctx, mod)
	if err != nil {
		return "", err
	}
	defer staged.Abort()
	return staged.Commit(ctx)
}

// StageMod implements plugin.Stager. The document is encoded into a hidden
// temporary file in the output directory; nothing else is touched until
// Commit.
func (s *DirSink) StageMod(ctx context.Context, mod *plugin.Mod) (plugin.StagedWrite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.outputDir, "."+mod.ModKey.FileName()+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := plugin.EncodeMod(tmp, mod, s.format); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to flush %s: %w", tmp.Name(), err)
	}

	return &dirStagedWrite{sink: s, key: mod.ModKey, tmp: tmp.Name()}, nil
}

// dirStagedWrite is a document waiting in its temporary file.
type dirStagedWrite struct {
	sink *DirSink
	key  plugin.ModKey
	tmp  string
	done bool
}

// Commit renames the temporary file into place while holding the directory
// lock, so readers never observe a partial document. Documents of the same
// plugin in other formats are removed.
func (w *dirStagedWrite) Commit(ctx context.Context) (string, error) {
	if w.done {
		return "", errors.New("staged document already committed or aborted")
	}
	outputDir := w.sink.outputDir

	lock := flock.New(filepath.Join(outputDir, lockFileName))
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return "", fmt.Errorf("failed to lock output dir: %w", err)
	}
	if !locked {
		return "", fmt.Errorf("output dir %s is locked by another process", outputDir)
	}
	defer lock.Unlock()

	target := filepath.Join(outputDir, plugin.DocumentName(w.key, w.sink.format))
	if err := os.Rename(w.tmp, target); err != nil {
		return "", fmt.Errorf("failed to move patch into place: %w", err)
	}
	w.done = true

	for _, ext := range plugin.DocumentExtensions() {
		stale := filepath.Join(outputDir, w.key.FileName()+ext)
		if stale == target {
			continue
		}
		if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to remove stale document: %w", err)
		}
	}

	return target, nil
}

// Abort removes the temporary file.
func (w *dirStagedWrite) Abort() {
	if w.done {
		return
	}
	w.done = true
	os.Remove(w.tmp)
}
