package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of event.
type Type string

// Event types posted by the service.
const (
	MetadataAddedEvent    Type = "MetadataAddedEvent"
	MetadataUpdatedEvent  Type = "MetadataUpdatedEvent"
	MetadataRemovedEvent  Type = "MetadataRemovedEvent"
	ConfigStatusInfoEvent Type = "ConfigStatusInfoEvent"
)

// Event is an immutable notification about a change in the service.
type Event struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`

	// Subject is the metadata key ("namespace:item") for metadata events
	// and the entity ID for config status events.
	Subject string `json:"subject"`

	Payload   json.RawMessage `json:"payload"`
	Source    string          `json:"source,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// New builds an event with a fresh ID, marshalling payload to JSON.
func New(t Type, subject string, payload any, source string) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encoding %s payload: %w", t, err)
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Subject:   subject,
		Payload:   raw,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Action returns the verb used in topics and descriptions:
// added, updated, removed or published.
func (t Type) Action() string {
	switch t {
	case MetadataAddedEvent:
		return "added"
	case MetadataUpdatedEvent:
		return "updated"
	case MetadataRemovedEvent:
		return "removed"
	default:
		return "published"
	}
}

// IsMetadata reports whether t is one of the metadata change types.
func (t Type) IsMetadata() bool {
	switch t {
	case MetadataAddedEvent, MetadataUpdatedEvent, MetadataRemovedEvent:
		return true
	}
	return false
}

// DecodePayload unmarshals the event payload into v.
func (e Event) DecodePayload(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", e.Type, err)
	}
	return nil
}

// String renders a human-readable description, e.g.
// "Metadata 'semantics:Kitchen_Light' has been added.".
func (e Event) String() string {
	if e.Type.IsMetadata() {
		return fmt.Sprintf("Metadata '%s' has been %s.", e.Subject, e.Type.Action())
	}
	if e.Type == ConfigStatusInfoEvent {
		return fmt.Sprintf("Config status of '%s' has been published.", e.Subject)
	}
	return fmt.Sprintf("%s '%s'.", e.Type, e.Subject)
}
