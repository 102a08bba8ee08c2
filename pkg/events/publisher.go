package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Envelope is the wire format for events on the audit topic.
type Envelope struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Publisher sends events to an in-process watermill topic. Publishing is
// fire-and-forget from the pipeline's perspective; a nil Publisher is safe
// to call and does nothing.
type Publisher struct {
	publisher message.Publisher
	topic     string
}

func NewPublisher(publisher message.Publisher, topic string) *Publisher {
	return &Publisher{
		publisher: publisher,
		topic:     topic,
	}
}

func (p *Publisher) Publish(event Event) error {
	if p == nil || p.publisher == nil {
		return nil
	}

	data, err := json.Marshal(Envelope{
		Type:       event.EventType(),
		Payload:    event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
	}
	return nil
}
