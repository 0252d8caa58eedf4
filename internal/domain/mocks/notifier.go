package mocks

import (
	"context"
	"sync"

	"github.com/arxiv/relations-core/internal/domain/entities"
)

// Notifier is a mock of ports.Notifier that records published events.
type Notifier struct {
	mu     sync.Mutex
	events []entities.ChangeEvent

	// Err, when set, is returned by Publish.
	Err error
}

// NewNotifier creates an empty mock notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Publish records the event.
func (m *Notifier) Publish(_ context.Context, ev *entities.ChangeEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *ev)
	return nil
}

// Close is a no-op.
func (m *Notifier) Close() error { return nil }

// Events returns a copy of everything published so far.
func (m *Notifier) Events() []entities.ChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.ChangeEvent(nil), m.events...)
}
