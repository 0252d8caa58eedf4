package services

import (
	"context"

	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/domain/ports"
)

// VerifierRegistry dispatches resource-existence checks by resource type.
// Checkability is opt-in: a resource type with no registered verifier is
// treated as non-checkable and always passes, so new resource types can
// appear without code changes here.
type VerifierRegistry struct {
	verifiers map[entities.ResourceType]ports.ResourceVerifier
}

// NewVerifierRegistry creates an empty registry.
func NewVerifierRegistry() *VerifierRegistry {
	return &VerifierRegistry{
		verifiers: make(map[entities.ResourceType]ports.ResourceVerifier),
	}
}

// Register installs a verifier for a resource type, replacing any previous
// one. Not safe for concurrent use with Verify; register everything during
// setup.
func (r *VerifierRegistry) Register(rt entities.ResourceType, v ports.ResourceVerifier) {
	r.verifiers[rt] = v
}

// Checkable reports whether a verifier is registered for the resource type.
func (r *VerifierRegistry) Checkable(rt entities.ResourceType) bool {
	_, ok := r.verifiers[rt]
	return ok
}

// Verify runs the existence check for the identifier. Unknown resource types
// pass through as verifiable.
func (r *VerifierRegistry) Verify(ctx context.Context, rt entities.ResourceType, identifier string) (bool, error) {
	v, ok := r.verifiers[rt]
	if !ok {
		return true, nil
	}
	return v.Exists(ctx, identifier)
}
