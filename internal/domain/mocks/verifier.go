package mocks

import (
	"context"
	"sync"
)

// Verifier is a mock of ports.ResourceVerifier.
type Verifier struct {
	mu sync.Mutex

	// Result is returned by Exists when Fn is nil.
	Result bool
	// Err is returned by Exists when Fn is nil.
	Err error
	// Fn, when set, is called instead of returning Result/Err.
	Fn func(ctx context.Context, identifier string) (bool, error)

	// Checked records every identifier passed to Exists.
	Checked []string
}

// NewVerifier creates a mock verifier that reports every resource as
// existing.
func NewVerifier() *Verifier {
	return &Verifier{Result: true}
}

// Exists records the identifier and returns the configured result.
func (m *Verifier) Exists(ctx context.Context, identifier string) (bool, error) {
	m.mu.Lock()
	m.Checked = append(m.Checked, identifier)
	m.mu.Unlock()

	if m.Fn != nil {
		return m.Fn(ctx, identifier)
	}
	return m.Result, m.Err
}
