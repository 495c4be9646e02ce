package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-configstatus/internal/infrastructure/mqtt"
)

// Publisher delivers events to a destination.
type Publisher interface {
	Post(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, e Event) error

// Post calls f(ctx, e).
func (f PublisherFunc) Post(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Nop discards every event.
type Nop struct{}

// Post does nothing.
func (Nop) Post(context.Context, Event) error { return nil }

// Multi posts each event to every publisher in order. All publishers are
// tried; their errors are joined.
type Multi []Publisher

// Post fans e out.
func (m Multi) Post(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Post(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MQTTClient is the subset of the MQTT client used for publishing.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MQTTPublisher posts events to the broker as JSON.
//
// Metadata events go to graylogic/core/metadata/{key}/{action}. Config
// status events are retained on graylogic/core/config/{entity}/status so
// late subscribers see the latest snapshot.
type MQTTPublisher struct {
	client MQTTClient
	qos    byte
}

// NewMQTTPublisher returns a publisher using client at the given QoS.
func NewMQTTPublisher(client MQTTClient, qos byte) *MQTTPublisher {
	return &MQTTPublisher{client: client, qos: qos}
}

// Post encodes e and publishes it on its topic.
func (p *MQTTPublisher) Post(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	topic, retained := Topic(e)
	payload, err := encode(e)
	if err != nil {
		return err
	}
	if err := p.client.Publish(topic, payload, p.qos, retained); err != nil {
		return fmt.Errorf("publishing %s for %s: %w", e.Type, e.Subject, err)
	}
	return nil
}

// Topic returns the MQTT topic for e and whether it is published retained.
func Topic(e Event) (topic string, retained bool) {
	topics := mqtt.Topics{}
	if e.Type == ConfigStatusInfoEvent {
		return topics.CoreConfigStatus(e.Subject), true
	}
	return topics.CoreMetadata(e.Subject, e.Type.Action()), false
}
