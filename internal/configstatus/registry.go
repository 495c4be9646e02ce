package configstatus

import (
	"reflect"
	"sync"
)

// Registry holds the set of registered providers.
//
// Thread Safety:
//   - All methods are safe for concurrent use. Provider callbacks run
//     outside the lock.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
	index     map[Provider]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[Provider]struct{})}
}

// Add registers p. It reports false if p was already registered, or if p
// is nil or not comparable (a value type holding a slice, map or func):
// such providers cannot be told apart for Remove and are not kept.
func (r *Registry) Add(p Provider) bool {
	if !registrable(p) {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[p]; ok {
		return false
	}
	r.index[p] = struct{}{}
	r.providers = append(r.providers, p)
	return true
}

// Remove unregisters p. It reports false if p was not registered.
func (r *Registry) Remove(p Provider) bool {
	if !registrable(p) {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[p]; !ok {
		return false
	}
	delete(r.index, p)
	for i, existing := range r.providers {
		if existing == p {
			r.providers = append(r.providers[:i:i], r.providers[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// ProvidersFor returns the providers whose SupportsEntity(entityID) is
// true right now, in registration order. A provider that panics in
// SupportsEntity is treated as not supporting the entity.
func (r *Registry) ProvidersFor(entityID string) []Provider {
	r.mu.RLock()
	snapshot := append([]Provider(nil), r.providers...)
	r.mu.RUnlock()

	var out []Provider
	for _, p := range snapshot {
		if supports(p, entityID) {
			out = append(out, p)
		}
	}
	return out
}

// registrable reports whether p can be used as a map key without
// panicking. Pointer providers always can.
func registrable(p Provider) bool {
	if p == nil {
		return false
	}
	return reflect.ValueOf(p).Comparable()
}

func supports(p Provider, entityID string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return p.SupportsEntity(entityID)
}
