package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-configstatus/internal/events"
	"github.com/nerrad567/gray-logic-configstatus/internal/storage"
)

const eventSource = "metadata"

// Logger defines the logging interface used by the store.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Store is the managed metadata registry.
//
// Entries are canonicalized on every write and again on every read, so
// callers always observe the same representation no matter how the
// backing storage round-trips numbers. Each successful write posts a
// metadata event after the storage call returns; publish failures are
// logged and do not fail the write.
//
// Thread Safety:
//   - All methods are safe for concurrent use; per-key atomicity comes from
//     the underlying storage.
type Store struct {
	storage   storage.Storage
	publisher events.Publisher
	logger    Logger
}

// NewStore returns a store over s. A nil publisher discards events.
func NewStore(s storage.Storage, publisher events.Publisher) *Store {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Store{storage: s, publisher: publisher, logger: noopLogger{}}
}

// SetLogger sets the logger for store operations.
func (s *Store) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Add stores new metadata or fails with ErrMetadataExists.
func (s *Store) Add(ctx context.Context, m Metadata) (Metadata, error) {
	m, data, err := prepare(m)
	if err != nil {
		return Metadata{}, err
	}
	if err := s.storage.Create(ctx, m.Key.String(), data); err != nil {
		if errors.Is(err, storage.ErrExists) {
			return Metadata{}, fmt.Errorf("%w: %s", ErrMetadataExists, m.Key)
		}
		return Metadata{}, fmt.Errorf("adding metadata %s: %w", m.Key, err)
	}
	s.post(ctx, events.MetadataAddedEvent, m.Key, m)
	return m, nil
}

// Update replaces existing metadata and returns the previous entry, or
// fails with ErrMetadataNotFound.
func (s *Store) Update(ctx context.Context, m Metadata) (Metadata, error) {
	m, data, err := prepare(m)
	if err != nil {
		return Metadata{}, err
	}
	prev, err := s.storage.Update(ctx, m.Key.String(), data)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Metadata{}, fmt.Errorf("%w: %s", ErrMetadataNotFound, m.Key)
		}
		return Metadata{}, fmt.Errorf("updating metadata %s: %w", m.Key, err)
	}
	old, err := decode(prev)
	if err != nil {
		return Metadata{}, err
	}
	s.post(ctx, events.MetadataUpdatedEvent, m.Key, []Metadata{m, old})
	return old, nil
}

// Put adds or replaces metadata. It returns the previous entry and whether
// one existed.
func (s *Store) Put(ctx context.Context, m Metadata) (old Metadata, existed bool, err error) {
	m, data, err := prepare(m)
	if err != nil {
		return Metadata{}, false, err
	}
	prev, err := s.storage.Put(ctx, m.Key.String(), data)
	if err != nil {
		return Metadata{}, false, fmt.Errorf("storing metadata %s: %w", m.Key, err)
	}
	if prev == nil {
		s.post(ctx, events.MetadataAddedEvent, m.Key, m)
		return Metadata{}, false, nil
	}
	old, err = decode(prev)
	if err != nil {
		return Metadata{}, true, err
	}
	s.post(ctx, events.MetadataUpdatedEvent, m.Key, []Metadata{m, old})
	return old, true, nil
}

// Remove deletes the metadata at key and returns it, or fails with
// ErrMetadataNotFound.
func (s *Store) Remove(ctx context.Context, key Key) (Metadata, error) {
	prev, err := s.storage.Remove(ctx, key.String())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Metadata{}, fmt.Errorf("%w: %s", ErrMetadataNotFound, key)
		}
		return Metadata{}, fmt.Errorf("removing metadata %s: %w", key, err)
	}
	old, err := decode(prev)
	if err != nil {
		return Metadata{}, err
	}
	s.post(ctx, events.MetadataRemovedEvent, key, old)
	return old, nil
}

// Get returns the metadata at key or ErrMetadataNotFound.
func (s *Store) Get(ctx context.Context, key Key) (Metadata, error) {
	data, err := s.storage.Get(ctx, key.String())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Metadata{}, fmt.Errorf("%w: %s", ErrMetadataNotFound, key)
		}
		return Metadata{}, fmt.Errorf("getting metadata %s: %w", key, err)
	}
	return decode(data)
}

// GetAll returns every entry sorted by key. Entries that cannot be decoded
// are logged and skipped.
func (s *Store) GetAll(ctx context.Context) ([]Metadata, error) {
	return s.Find(ctx, All())
}

// Find returns the entries matching pred, sorted by key.
func (s *Store) Find(ctx context.Context, pred Predicate) ([]Metadata, error) {
	entries, err := s.storage.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing metadata: %w", err)
	}

	result := make([]Metadata, 0, len(entries))
	for _, e := range entries {
		m, err := decode(e.Value)
		if err != nil {
			s.logger.Warn("skipping unreadable metadata", "key", e.Key, "error", err)
			continue
		}
		if pred(m) {
			result = append(result, m)
		}
	}
	return result, nil
}

// RemoveAllMatching removes every entry matching pred and returns the
// removed entries. Matches are taken from a snapshot; entries removed
// concurrently in the meantime are skipped.
func (s *Store) RemoveAllMatching(ctx context.Context, pred Predicate) ([]Metadata, error) {
	matches, err := s.Find(ctx, pred)
	if err != nil {
		return nil, err
	}

	removed := make([]Metadata, 0, len(matches))
	for _, m := range matches {
		old, err := s.Remove(ctx, m.Key)
		if errors.Is(err, ErrMetadataNotFound) {
			continue
		}
		if err != nil {
			return removed, err
		}
		removed = append(removed, old)
	}
	return removed, nil
}

// RemoveItemMetadata removes every namespace attached to itemName. It is
// called when the item itself is removed.
func (s *Store) RemoveItemMetadata(ctx context.Context, itemName string) ([]Metadata, error) {
	removed, err := s.RemoveAllMatching(ctx, OfItem(itemName))
	if err != nil {
		return removed, err
	}
	s.logger.Debug("item metadata removed", "item", itemName, "count", len(removed))
	return removed, nil
}

func prepare(m Metadata) (Metadata, []byte, error) {
	if err := m.Key.Validate(); err != nil {
		return Metadata{}, nil, err
	}
	m = m.Normalize()
	data, err := encode(m)
	if err != nil {
		return Metadata{}, nil, err
	}
	return m, data, nil
}

func (s *Store) post(ctx context.Context, t events.Type, key Key, payload any) {
	e, err := events.New(t, key.String(), payload, eventSource)
	if err != nil {
		s.logger.Error("building metadata event", "key", key.String(), "error", err)
		return
	}
	if err := s.publisher.Post(ctx, e); err != nil {
		s.logger.Warn("posting metadata event failed", "key", key.String(), "type", string(t), "error", err)
	}
}
