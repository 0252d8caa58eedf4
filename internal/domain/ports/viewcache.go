package ports

import (
	"context"

	"github.com/arxiv/relations-core/internal/domain/entities"
)

// ViewCache holds recently aggregated relation views. Purely an optimization
// for the read path; it is invalidated on every commit and entries expire on
// their own, so a cold or unavailable cache only costs a store round trip.
type ViewCache interface {
	// GetAggregate returns the cached view for an e-print/version, with ok
	// false on a miss.
	GetAggregate(ctx context.Context, eprintID string, version int) (views []entities.RelationView, ok bool, err error)

	// SetAggregate stores the view for an e-print/version.
	SetAggregate(ctx context.Context, eprintID string, version int, views []entities.RelationView) error

	// InvalidateEPrint drops every cached view for an e-print.
	InvalidateEPrint(ctx context.Context, eprintID string) error

	// Close releases the underlying connection.
	Close() error
}
