package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a concurrency-safe in-memory KV. Values are lost on exit.
type MemoryStore struct {
	mu sync.RWMutex

	// key: persisted key, value: int or string
	data map[Key]interface{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[Key]interface{}),
	}
}

// GetInt returns the integer stored under key.
func (s *MemoryStore) GetInt(_ context.Context, key Key) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return 0, ErrNotFound
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("key %d holds %T, not int", key, v)
	}
	return n, nil
}

// SetInt stores an integer under key, replacing any previous value.
func (s *MemoryStore) SetInt(_ context.Context, key Key, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// GetString returns the string stored under key.
func (s *MemoryStore) GetString(_ context.Context, key Key) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("key %d holds %T, not string", key, v)
	}
	return str, nil
}

// SetString stores a string under key, replacing any previous value.
func (s *MemoryStore) SetString(_ context.Context, key Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

var _ KV = (*MemoryStore)(nil)
