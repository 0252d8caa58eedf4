package ports

import (
	"context"
	"errors"

	"github.com/arxiv/relations-core/internal/domain/entities"
)

// ErrPriorTaken is returned by Append when another assertion already
// references the same prior. The store enforces this with a uniqueness
// constraint so that two concurrent submissions cannot both supersede the
// same parent (compare-and-append).
var ErrPriorTaken = errors.New("prior assertion already superseded or suppressed")

// AssertionStore is durable, append-only persistence for assertions. Rows are
// only ever inserted, never updated or deleted.
type AssertionStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Append commits a new assertion, assigning its ID and CreatedAt.
	// Returns ErrPriorTaken if the referenced prior already has a successor.
	Append(ctx context.Context, a *entities.Assertion) error

	// FindByID returns the assertion with the given ID, or nil if absent.
	FindByID(ctx context.Context, id int64) (*entities.Assertion, error)

	// FindSuccessor returns the assertion that supersedes or suppresses the
	// given one, or nil if it is still a chain head.
	FindSuccessor(ctx context.Context, priorID int64) (*entities.Assertion, error)

	// FindByEPrint returns all assertions for the e-print, oldest first.
	// A specific version also matches paper-level (VersionAny) rows;
	// requesting VersionAny returns every assertion for the e-print.
	FindByEPrint(ctx context.Context, eprintID string, version int) ([]entities.Assertion, error)

	// CountAssertions returns the total number of committed assertions.
	CountAssertions(ctx context.Context) (int, error)
}
