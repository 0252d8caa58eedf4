package ports

import (
	"context"

	"github.com/arxiv/relations-core/internal/domain/entities"
)

// Notifier publishes one change event per committed assertion. Delivery is
// best-effort: failures are surfaced as advisory warnings and never roll back
// the commit.
type Notifier interface {
	// Publish emits the event for a committed assertion.
	Publish(ctx context.Context, ev *entities.ChangeEvent) error

	// Close releases the underlying connection.
	Close() error
}
