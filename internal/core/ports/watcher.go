package ports

import (
	"context"
	"iter"
)

// WatchOperation classifies a file system event.
type WatchOperation int

const (
	// OpWrite indicates a file was modified.
	OpWrite WatchOperation = iota
	// OpCreate indicates a file was created.
	OpCreate
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed.
	OpRename
)

// WatchEvent is a single file system event.
type WatchEvent struct {
	Path      string
	Operation WatchOperation
}

// Watcher observes a patch document on disk for live reloading.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given file. Events are delivered until the
	// context is cancelled or Stop is called.
	Start(ctx context.Context, path string) error

	// Stop stops the watcher and releases all resources.
	Stop() error

	// Events returns an iterator of file system events.
	Events() iter.Seq[WatchEvent]
}
