package store

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore implements Store in memory. Values are stored encoded, so
// callers never share data with the store.
type MemoryStore struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Load decodes the named collection into v
func (ms *MemoryStore) Load(name string, v any) (bool, error) {
	if !validName(name) {
		return false, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	ms.mu.RLock()
	data, ok := ms.data[name]
	ms.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return true, nil
}

// Save replaces the named collection
func (ms *MemoryStore) Save(name string, v any) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	ms.mu.Lock()
	ms.data[name] = data
	ms.mu.Unlock()
	return nil
}
