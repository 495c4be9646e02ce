package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStorage keeps documents in process memory.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]json.RawMessage)}
}

// Get implements Storage.
func (s *MemoryStorage) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return clone(v), nil
}

// Create implements Storage.
func (s *MemoryStorage) Create(_ context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		return fmt.Errorf("%w: %s", ErrExists, key)
	}
	s.entries[key] = clone(value)
	return nil
}

// Update implements Storage.
func (s *MemoryStorage) Update(_ context.Context, key string, value json.RawMessage) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	s.entries[key] = clone(value)
	return prev, nil
}

// Put implements Storage.
func (s *MemoryStorage) Put(_ context.Context, key string, value json.RawMessage) (json.RawMessage, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.entries[key]
	s.entries[key] = clone(value)
	return prev, nil
}

// Remove implements Storage.
func (s *MemoryStorage) Remove(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(s.entries, key)
	return prev, nil
}

// Keys implements Storage.
func (s *MemoryStorage) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Entries implements Storage.
func (s *MemoryStorage) Entries(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for k, v := range s.entries {
		out = append(out, Entry{Key: k, Value: clone(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func clone(v json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	return append(json.RawMessage(nil), v...)
}
