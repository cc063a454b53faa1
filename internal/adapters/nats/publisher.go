package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/busticket/internal/core/domain"
)

// Subjects events are published on.
const (
	SubjectSearchPerformed = "busticket.search.performed"
	SubjectSeatMapServed   = "busticket.seats.served"
	SubjectContactReceived = "busticket.contact.received"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("busticket-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range streamConfigs() {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func streamConfigs() []nats.StreamConfig {
	return []nats.StreamConfig{
		{
			Name:      "BUSTICKET_ANALYTICS",
			Subjects:  []string{"busticket.search.>", "busticket.seats.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "BUSTICKET_CONTACT",
			Subjects:  []string{"busticket.contact.>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    30 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}
}

func (p *Publisher) PublishSearchPerformed(ctx context.Context, event *domain.SearchPerformed) error {
	return p.publish(ctx, SubjectSearchPerformed, event.ID, event)
}

func (p *Publisher) PublishSeatMapServed(ctx context.Context, event *domain.SeatMapServed) error {
	return p.publish(ctx, SubjectSeatMapServed, event.ID, event)
}

func (p *Publisher) PublishContactReceived(ctx context.Context, event *domain.ContactReceived) error {
	return p.publish(ctx, SubjectContactReceived, event.ID, event)
}

func (p *Publisher) publish(ctx context.Context, subject, id string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	opts := []nats.PubOpt{nats.Context(ctx)}
	if id != "" {
		opts = append(opts, nats.MsgId(id))
	}
	if _, err := p.js.Publish(subject, data, opts...); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Connected reports whether the underlying connection is up.
func (p *Publisher) Connected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
