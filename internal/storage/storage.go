package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// Domain-specific errors for storage operations.
var (
	// ErrNotFound is returned when a key has no entry.
	ErrNotFound = errors.New("storage: entry not found")

	// ErrExists is returned by Create when the key already has an entry.
	ErrExists = errors.New("storage: entry already exists")

	// ErrInvalidKey is returned for empty keys.
	ErrInvalidKey = errors.New("storage: key cannot be empty")
)

// Entry is one stored document.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Storage is a named, durable string-keyed map of JSON documents.
//
// Each call is atomic for its key. Documents come back as the JSON that was
// stored; callers must not rely on numeric subtypes surviving.
type Storage interface {
	// Get returns the document for key or ErrNotFound.
	Get(ctx context.Context, key string) (json.RawMessage, error)

	// Create stores value under a new key or fails with ErrExists.
	Create(ctx context.Context, key string, value json.RawMessage) error

	// Update replaces an existing document and returns the previous one,
	// or fails with ErrNotFound.
	Update(ctx context.Context, key string, value json.RawMessage) (json.RawMessage, error)

	// Put stores value and returns the previous document (nil if none).
	Put(ctx context.Context, key string, value json.RawMessage) (json.RawMessage, error)

	// Remove deletes key and returns the removed document, or ErrNotFound.
	Remove(ctx context.Context, key string) (json.RawMessage, error)

	// Keys returns every key, sorted.
	Keys(ctx context.Context) ([]string, error)

	// Entries returns a snapshot of every entry, sorted by key.
	Entries(ctx context.Context) ([]Entry, error)
}
