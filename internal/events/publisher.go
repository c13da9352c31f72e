package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Publisher sends an event payload on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// RawPublisher is satisfied by *Client.
type RawPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher JSON-encodes payloads and publishes them over NATS.
type NATSPublisher struct {
	nats   RawPublisher
	logger *zap.Logger
}

func NewNATSPublisher(nats RawPublisher, logger *zap.Logger) *NATSPublisher {
	return &NATSPublisher{nats: nats, logger: logger}
}

func (p *NATSPublisher) Publish(_ context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", subject, err)
	}
	if err := p.nats.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	p.logger.Debug("published event", zap.String("subject", subject))
	return nil
}

// NopPublisher drops every event. Used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// Message is an event captured by Recorder.
type Message struct {
	Subject string
	Payload any
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Publish(_ context.Context, subject string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Subject: subject, Payload: payload})
	return nil
}

// Subjects returns the subjects published so far, in order.
func (r *Recorder) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	for i, m := range r.messages {
		out[i] = m.Subject
	}
	return out
}

// Messages returns a copy of everything published so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
