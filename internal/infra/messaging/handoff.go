package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Handoff delivers reservation text to an external contact. The catalog core
// only produces the payload; delivery transport lives behind this interface.
type Handoff interface {
	Send(ctx context.Context, contact, text string) error
}

// Publisher is the broker side the Kafka handoff writes to.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// KafkaHandoff publishes reservation handoffs to a topic for an out-of-band
// delivery worker.
type KafkaHandoff struct {
	Producer Publisher
	Topic    string
}

type handoffEnvelope struct {
	Contact string    `json:"contact"`
	Link    string    `json:"link"`
	Text    string    `json:"text"`
	SentAt  time.Time `json:"sent_at"`
}

func (h KafkaHandoff) Send(ctx context.Context, contact, text string) error {
	payload, err := json.Marshal(handoffEnvelope{
		Contact: SanitizePhone(contact),
		Link:    WhatsAppLink(contact, text),
		Text:    text,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("messaging: encode handoff: %w", err)
	}
	if err := h.Producer.Publish(ctx, h.Topic, SanitizePhone(contact), payload, nil); err != nil {
		return fmt.Errorf("messaging: publish handoff: %w", err)
	}
	return nil
}

// NopHandoff is used when no broker is configured; the caller still gets the
// wa.me link from the HTTP response.
type NopHandoff struct{}

func (NopHandoff) Send(context.Context, string, string) error { return nil }
