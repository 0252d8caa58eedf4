// Package nats publishes change events to a NATS JetStream stream.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/infrastructure/config"
)

// subjectPrefix is the subject space for assertion events; the action is
// appended so consumers can subscribe to creates, supersedes or suppresses
// independently.
const subjectPrefix = "relations.assertion."

// Publisher implements ports.Notifier on a JetStream stream. One event is
// published per committed assertion; delivery is best-effort from the
// ledger's point of view, durable from the stream's.
type Publisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream string
}

// NewPublisher connects to NATS and ensures the stream exists.
func NewPublisher(ctx context.Context, cfg config.NATSConfig) (*Publisher, error) {
	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	stream := cfg.Stream
	if stream == "" {
		stream = "RELATIONS"
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     stream,
		Subjects: []string{subjectPrefix + ">"},
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", stream, err)
	}

	return &Publisher{
		conn:   conn,
		js:     js,
		stream: stream,
	}, nil
}

// Publish emits one event for a committed assertion. The message ID header
// lets JetStream deduplicate redelivered publishes.
func (p *Publisher) Publish(ctx context.Context, ev *entities.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	subject := subjectPrefix + strings.ToLower(string(ev.Action))
	if _, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(uuid.New().String())); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	p.conn.Close()
	return nil
}
