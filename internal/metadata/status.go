package metadata

import (
	"context"
	"sync"

	"github.com/nerrad567/gray-logic-configstatus/internal/configstatus"
	"github.com/nerrad567/gray-logic-configstatus/internal/events"
)

// Message key suffixes reported by item status providers.
const (
	KeyNamespace   = "metadata.namespace"
	KeyValueEmpty  = "metadata.value.empty"
	KeyConfigCount = "metadata.config.count"
)

// ProviderRegistrar is the part of the config status service the tracker
// registers providers with.
type ProviderRegistrar interface {
	AddProvider(p configstatus.Provider)
	RemoveProvider(p configstatus.Provider)
}

// StatusTracker keeps one config status provider registered per item that
// carries metadata. It consumes metadata events as an events.Publisher and
// notifies the affected item's provider so fresh status gets published.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type StatusTracker struct {
	store     *Store
	registrar ProviderRegistrar
	logger    Logger

	// reconcileMu serializes the store check and the provider change, so a
	// stale "no metadata left" result cannot drop a provider that a
	// concurrent add has just relied on.
	reconcileMu sync.Mutex

	mu        sync.Mutex
	providers map[string]*ItemStatusProvider
}

// NewStatusTracker returns a tracker reading from store.
func NewStatusTracker(store *Store, registrar ProviderRegistrar) *StatusTracker {
	return &StatusTracker{
		store:     store,
		registrar: registrar,
		logger:    noopLogger{},
		providers: make(map[string]*ItemStatusProvider),
	}
}

// SetLogger sets the logger for tracker operations.
func (t *StatusTracker) SetLogger(logger Logger) {
	if logger != nil {
		t.logger = logger
	}
}

// Sync registers a provider for every item currently in the store.
func (t *StatusTracker) Sync(ctx context.Context) error {
	t.reconcileMu.Lock()
	defer t.reconcileMu.Unlock()

	all, err := t.store.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, m := range all {
		t.ensure(m.Key.ItemName)
	}
	t.logger.Info("metadata status providers synced", "items", t.Len())
	return nil
}

// Len returns the number of tracked items.
func (t *StatusTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.providers)
}

// Provider returns the provider for itemName, if tracked.
func (t *StatusTracker) Provider(itemName string) (*ItemStatusProvider, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.providers[itemName]
	return p, ok
}

// Post implements events.Publisher. Non-metadata events are ignored.
func (t *StatusTracker) Post(ctx context.Context, e events.Event) error {
	if !e.Type.IsMetadata() {
		return nil
	}
	key, err := ParseKey(e.Subject)
	if err != nil {
		return err
	}

	p, err := t.reconcile(ctx, key.ItemName, e.Type == events.MetadataRemovedEvent)
	if err != nil || p == nil {
		return err
	}
	p.notify(ctx)
	return nil
}

// reconcile makes the provider for item match the store. After a removal
// the provider is dropped when the item has no metadata left; otherwise it
// is registered if missing. A nil provider means the item was dropped.
func (t *StatusTracker) reconcile(ctx context.Context, item string, removed bool) (*ItemStatusProvider, error) {
	t.reconcileMu.Lock()
	defer t.reconcileMu.Unlock()

	if removed {
		remaining, err := t.store.Find(ctx, OfItem(item))
		if err != nil {
			return nil, err
		}
		if len(remaining) == 0 {
			t.drop(item)
			return nil, nil
		}
	}
	return t.ensure(item), nil
}

func (t *StatusTracker) ensure(item string) *ItemStatusProvider {
	t.mu.Lock()
	p, ok := t.providers[item]
	if !ok {
		p = &ItemStatusProvider{item: item, store: t.store}
		t.providers[item] = p
	}
	t.mu.Unlock()

	if !ok {
		t.registrar.AddProvider(p)
		t.logger.Debug("metadata status provider registered", "item", item)
	}
	return p
}

func (t *StatusTracker) drop(item string) {
	t.mu.Lock()
	p, ok := t.providers[item]
	delete(t.providers, item)
	t.mu.Unlock()

	if ok {
		t.registrar.RemoveProvider(p)
		t.logger.Debug("metadata status provider removed", "item", item)
	}
}

// ItemStatusProvider reports one message set per metadata namespace of an
// item. The entity ID is the item name.
type ItemStatusProvider struct {
	item  string
	store *Store

	mu       sync.Mutex
	callback configstatus.Callback
}

// SupportsEntity implements configstatus.Provider.
func (p *ItemStatusProvider) SupportsEntity(entityID string) bool {
	return entityID == p.item
}

// ConfigStatus implements configstatus.Provider.
//
// Every namespace yields an information message with the namespace and
// value as arguments, plus a warning when the value is empty and an
// information message counting configuration entries when there are any.
func (p *ItemStatusProvider) ConfigStatus(ctx context.Context) ([]configstatus.Message, error) {
	entries, err := p.store.Find(ctx, OfItem(p.item))
	if err != nil {
		return nil, err
	}

	var msgs []configstatus.Message
	for _, m := range entries {
		ns := m.Key.Namespace
		msgs = append(msgs, configstatus.Information(ns).
			WithMessageKeySuffix(KeyNamespace).
			WithArguments(ns, m.Value))
		if m.Value == "" {
			msgs = append(msgs, configstatus.Warning(ns).
				WithMessageKeySuffix(KeyValueEmpty).
				WithArguments(ns))
		}
		if n := len(m.Configuration); n > 0 {
			msgs = append(msgs, configstatus.Information(ns).
				WithMessageKeySuffix(KeyConfigCount).
				WithArguments(ns, n))
		}
	}
	return msgs, nil
}

// SetConfigStatusCallback implements configstatus.CallbackAware.
func (p *ItemStatusProvider) SetConfigStatusCallback(cb configstatus.Callback) {
	p.mu.Lock()
	p.callback = cb
	p.mu.Unlock()
}

func (p *ItemStatusProvider) notify(ctx context.Context) {
	p.mu.Lock()
	cb := p.callback
	p.mu.Unlock()
	if cb != nil {
		cb.ConfigUpdated(ctx, configstatus.Source{EntityID: p.item})
	}
}
