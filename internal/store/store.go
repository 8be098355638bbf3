// internal/store/store.go
//
// Persistent store adapter: a pure serialization boundary that reads and
// writes named JSON blobs to durable local storage.
//
// Characteristics:
//   - Two keys in use: "leaderboard" and "imagePool", each a full-replace blob.
//   - Every logical mutation triggers an immediate save; there is no batching.
//   - Write/read failures surface as *StorageError and are never fatal to a
//     running session: callers keep their in-memory state and retry.

package store

import (
	"context"
	"errors"
	"fmt"
)

// Keys for the two persisted blobs.
const (
	KeyLeaderboard = "leaderboard"
	KeyImagePool   = "imagePool"
)

// ErrNotFound is returned by LoadBlob when a key has never been saved.
// Callers fall back to built-in seed data.
var ErrNotFound = errors.New("blob not found")

// StorageError wraps a persistence failure with the key and operation that
// caused it.
type StorageError struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store defines the persistence interface for the engine's blobs.
// Implementations may be backed by SQLite (this package), memory (tests), etc.
type Store interface {
	// SaveBlob serializes v and durably replaces the blob at key.
	SaveBlob(ctx context.Context, key string, v any) error

	// LoadBlob reads the blob at key into v.
	// Returns ErrNotFound if the key has never been saved.
	LoadBlob(ctx context.Context, key string, v any) error

	// Close releases the underlying resources.
	Close() error
}
