// internal/store/memory.go
//
// In-memory Store implementation.
// Used in tests and when durability is not required; state is lost when the
// process exits. Concurrency-safe via RWMutex. Values are kept as marshaled
// JSON so load/save round-trips exercise the same serialization path as the
// SQLite store.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var errSavesDisabled = errors.New("saves disabled")

// Memory is a map-backed Store.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	// FailSaves makes every SaveBlob fail, for exercising recovery paths.
	FailSaves bool
}

// NewMemory constructs an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// SaveBlob serializes v and stores it under key.
func (m *Memory) SaveBlob(ctx context.Context, key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return &StorageError{Op: "save", Key: key, Err: errSavesDisabled}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return &StorageError{Op: "save", Key: key, Err: err}
	}
	m.blobs[key] = data
	return nil
}

// LoadBlob unmarshals the stored blob at key into v.
func (m *Memory) LoadBlob(ctx context.Context, key string, v any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[key]
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &StorageError{Op: "load", Key: key, Err: err}
	}
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
