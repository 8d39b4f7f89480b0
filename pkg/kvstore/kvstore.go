// Package kvstore defines the persistence port the detector uses to load
// and save correction state, plus an in-memory implementation. Hosts supply
// their own implementation (a browser storage bridge, [Bolt], anything with
// get/set semantics).
package kvstore

import (
	"context"
	"sync"
)

// Store is an async-friendly key-value store. Values are opaque bytes; the
// detector owns their encoding.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// Memory is an in-memory Store, used in tests and as the zero-state
// fallback before a host store has loaded.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns the stored value, if any.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set stores a copy of the value.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}
