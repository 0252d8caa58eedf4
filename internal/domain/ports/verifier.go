package ports

import "context"

// ResourceVerifier checks that a resource identifier points at something that
// exists and is reachable. Implementations are per resource type and
// independently testable.
type ResourceVerifier interface {
	// Exists reports whether the identifier resolves to a live resource.
	// A false return with nil error means the resource was checked and is
	// not there; errors are entities.VerificationError values.
	Exists(ctx context.Context, identifier string) (bool, error)
}
