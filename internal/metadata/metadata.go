package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	namespacePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	itemNamePattern  = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// Key identifies metadata by namespace and item name.
type Key struct {
	Namespace string `json:"namespace"`
	ItemName  string `json:"item"`
}

// NewKey returns a key for namespace and itemName.
func NewKey(namespace, itemName string) Key {
	return Key{Namespace: namespace, ItemName: itemName}
}

// ParseKey parses the "namespace:item" form produced by String.
func ParseKey(s string) (Key, error) {
	ns, item, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, fmt.Errorf("%w: %q is not namespace:item", ErrInvalidKey, s)
	}
	k := NewKey(ns, item)
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

// Validate checks both parts of the key.
func (k Key) Validate() error {
	if !namespacePattern.MatchString(k.Namespace) {
		return fmt.Errorf("%w: namespace %q", ErrInvalidKey, k.Namespace)
	}
	if !itemNamePattern.MatchString(k.ItemName) {
		return fmt.Errorf("%w: item name %q", ErrInvalidKey, k.ItemName)
	}
	return nil
}

func (k Key) String() string {
	return k.Namespace + ":" + k.ItemName
}

// Metadata is a namespaced annotation on an item: a main value plus a
// configuration map of canonical Values.
type Metadata struct {
	Key           Key              `json:"key"`
	Value         string           `json:"value"`
	Configuration map[string]Value `json:"configuration,omitempty"`
}

// New builds metadata, converting every configuration value with ValueOf.
func New(key Key, value string, configuration map[string]any) (Metadata, error) {
	m := Metadata{Key: key, Value: value}
	if len(configuration) > 0 {
		m.Configuration = make(map[string]Value, len(configuration))
		for name, raw := range configuration {
			v, err := ValueOf(raw)
			if err != nil {
				return Metadata{}, fmt.Errorf("configuration %q: %w", name, err)
			}
			m.Configuration[name] = v
		}
	}
	return m, nil
}

// Normalize returns a copy whose configuration values are all in canonical
// form. An empty configuration becomes nil. Normalize is idempotent.
func (m Metadata) Normalize() Metadata {
	out := Metadata{Key: m.Key, Value: m.Value}
	if len(m.Configuration) == 0 {
		return out
	}
	out.Configuration = make(map[string]Value, len(m.Configuration))
	for name, v := range m.Configuration {
		if v.kind == KindDecimal {
			if c, err := canonical(v.dec); err == nil {
				v.dec = c
			}
		}
		out.Configuration[name] = v
	}
	return out
}

// ConfigurationNames returns the configuration keys, sorted.
func (m Metadata) ConfigurationNames() []string {
	names := make([]string, 0, len(m.Configuration))
	for name := range m.Configuration {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal compares keys, values and configurations.
func (m Metadata) Equal(o Metadata) bool {
	if m.Key != o.Key || m.Value != o.Value || len(m.Configuration) != len(o.Configuration) {
		return false
	}
	for name, v := range m.Configuration {
		ov, ok := o.Configuration[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// encode serializes normalized metadata for storage. Map keys are sorted
// by encoding/json, so equal metadata encodes to identical bytes.
func encode(m Metadata) (json.RawMessage, error) {
	data, err := json.Marshal(m.Normalize())
	if err != nil {
		return nil, fmt.Errorf("encoding metadata %s: %w", m.Key, err)
	}
	return data, nil
}

// decode parses a stored document. Numbers are read as json.Number so
// they reach ValueOf without passing through float64.
func decode(data []byte) (Metadata, error) {
	var wire struct {
		Key           Key            `json:"key"`
		Value         string         `json:"value"`
		Configuration map[string]any `json:"configuration"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&wire); err != nil {
		return Metadata{}, fmt.Errorf("decoding metadata: %w", err)
	}
	m, err := New(wire.Key, wire.Value, wire.Configuration)
	if err != nil {
		return Metadata{}, fmt.Errorf("decoding metadata %s: %w", wire.Key, err)
	}
	return m.Normalize(), nil
}
