package lighting_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"lighting-patcher/feature/lighting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// fasthttp keeps a process-wide date ticker once any fiber app served a request.
var leakOptions = []goleak.Option{
	goleak.IgnoreAnyFunction("github.com/valyala/fasthttp.updateServerDate.func1"),
}

func TestWatcher_StopsAfterHTTPHandlers(t *testing.T) {
	app, _, _ := setupTestApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/lighting/reference", nil))
	require.NoError(t, err)
	resp.Body.Close()

	defer goleak.VerifyNone(t, leakOptions...)

	w, err := lighting.NewWatcher(t.TempDir(), "plugins.txt", nil, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx, func(context.Context) error { return nil }))
}

func TestWatcher_DebouncesRelevantChanges(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)

	dir := t.TempDir()
	w, err := lighting.NewWatcher(dir, "plugins.txt", []string{patchName + ".json"}, 150*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	var runs atomic.Int32
	triggered := make(chan struct{}, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(ctx context.Context) error {
			runs.Add(1)
			triggered <- struct{}{}
			return nil
		})
	}()

	write := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	write("notes.txt")
	write(patchName + ".json")
	write("Inns.esp.json")
	write("plugins.txt")

	select {
	case <-triggered:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not trigger")
	}
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load(), "one burst, one run")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)

	dir := t.TempDir()
	w, err := lighting.NewWatcher(dir, "plugins.txt", []string{patchName + ".json"}, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(ctx context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, patchName+".json"), []byte("{}"), 0o644))
	time.Sleep(200 * time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Zero(t, runs.Load())
}

func TestWatcher_MissingDir(t *testing.T) {
	_, err := lighting.NewWatcher(filepath.Join(t.TempDir(), "nope"), "plugins.txt", nil, 0, zap.NewNop())
	assert.Error(t, err)
}
