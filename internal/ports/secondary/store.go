// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"

	"github.com/example/shiftlog/internal/models"
)

// ErrKeyNotFound is returned by KeyValueStore.Get for an absent key.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the persistent key-value store that mirrors in-memory state.
// Put must replace the value of a key atomically.
type KeyValueStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// Persister writes one store's snapshot, either debounced or immediately.
type Persister interface {
	// SchedulePersist (re)starts the debounce window.
	SchedulePersist()

	// PersistNow cancels any pending write and writes synchronously.
	PersistNow(ctx context.Context) error

	// CancelPending drops a scheduled write. It reports whether one was pending.
	CancelPending() bool

	// Close flushes a pending write and stops the persister.
	Close(ctx context.Context) error
}

// ViewSnapshot is a read-only copy of state handed to renderers.
type ViewSnapshot struct {
	Data     models.State
	Settings models.Settings
}

// Renderer redraws every view from a snapshot.
type Renderer interface {
	Render(ctx context.Context, view ViewSnapshot) error
}

// FileStore reads and writes export documents.
type FileStore interface {
	// WriteFile writes data to path and returns the path actually written.
	// A directory path receives defaultName inside it.
	WriteFile(ctx context.Context, path, defaultName string, data []byte) (string, error)

	// ReadFile reads an import document.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Clock abstracts wall time.
type Clock interface {
	Now() time.Time
}

// IDGenerator produces unique record identifiers.
type IDGenerator interface {
	NewID() string
}

// DocumentStore reads and writes one decoded document type by key.
// Read reports false for a missing or unreadable document.
type DocumentStore[T any] interface {
	Read(ctx context.Context, key string) (T, bool)
	Write(ctx context.Context, key string, v T) error
}

// BackupStore is the bounded history of data snapshots.
type BackupStore interface {
	// List returns decodable entries, most recent first.
	List(ctx context.Context) []models.BackupEntry

	// RestoreLatest returns the newest entry that decodes and migrates.
	RestoreLatest(ctx context.Context) (*models.BackupEntry, bool)
}
