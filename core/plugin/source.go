package plugin

import (
	"context"
	"errors"
)

// ErrModNotFound is returned by a Source when a listed plugin has no document.
var ErrModNotFound = errors.New("plugin document not found")

// Source provides the load order and the plugin documents it names.
type Source interface {
	// Name identifies the source in logs (e.g. "dir", "bucket").
	Name() string

	// ReadLoadOrder returns the plugins file entries in load order.
	ReadLoadOrder(ctx context.Context) ([]Entry, error)

	// ReadMod returns the document for key, or ErrModNotFound.
	ReadMod(ctx context.Context, key ModKey) (*Mod, error)
}

// Sink persists a finished plugin.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string

	// WriteMod stores mod and returns where it was written.
	WriteMod(ctx context.Context, mod *Mod) (string, error)
}

// StagedWrite is a document prepared by a Stager but not yet visible.
type StagedWrite interface {
	// Commit makes the document visible and returns where it was written.
	Commit(ctx context.Context) (string, error)
	// Abort discards the document. It is a no-op after Commit.
	Abort()
}

// Stager is a Sink that can prepare a document before publishing it. A run
// writing several sinks stages first and commits only after every other
// sink succeeded.
type Stager interface {
	Sink
	StageMod(ctx context.Context, mod *Mod) (StagedWrite, error)
}
