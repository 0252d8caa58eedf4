// Package mocks provides hand-written mock implementations of the domain
// ports for testing.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/domain/ports"
)

// AssertionStore is an in-memory mock of ports.AssertionStore. It enforces
// the same compare-and-append rule as the real store: at most one successor
// per assertion.
type AssertionStore struct {
	mu         sync.Mutex
	rows       map[int64]entities.Assertion
	successors map[int64]int64
	nextID     int64
	now        time.Time

	// Err, when set, is returned by every operation.
	Err error
	// AppendErr, when set, is returned by Append only.
	AppendErr error
}

// NewAssertionStore creates an empty mock store.
func NewAssertionStore() *AssertionStore {
	return &AssertionStore{
		rows:       make(map[int64]entities.Assertion),
		successors: make(map[int64]int64),
		nextID:     1,
		now:        time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// EnsureSchema is a no-op.
func (m *AssertionStore) EnsureSchema(_ context.Context) error { return m.Err }

// Close is a no-op.
func (m *AssertionStore) Close() error { return nil }

// Append commits the assertion, assigning ID and CreatedAt. Each call
// advances the mock clock so CreatedAt is strictly increasing.
func (m *AssertionStore) Append(_ context.Context, a *entities.Assertion) error {
	if m.Err != nil {
		return m.Err
	}
	if m.AppendErr != nil {
		return m.AppendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if a.Prior != nil {
		if _, taken := m.successors[*a.Prior]; taken {
			return ports.ErrPriorTaken
		}
	}

	a.ID = m.nextID
	m.nextID++
	m.now = m.now.Add(time.Second)
	a.CreatedAt = m.now

	stored := *a
	stored.Status = ""
	m.rows[a.ID] = stored
	if a.Prior != nil {
		m.successors[*a.Prior] = a.ID
	}
	return nil
}

// FindByID returns the stored assertion or nil.
func (m *AssertionStore) FindByID(_ context.Context, id int64) (*entities.Assertion, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.rows[id]; ok {
		return &a, nil
	}
	return nil, nil
}

// FindSuccessor returns the assertion referencing priorID, or nil.
func (m *AssertionStore) FindSuccessor(_ context.Context, priorID int64) (*entities.Assertion, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.successors[priorID]; ok {
		a := m.rows[id]
		return &a, nil
	}
	return nil, nil
}

// FindByEPrint returns matching assertions ordered by ID ascending.
func (m *AssertionStore) FindByEPrint(_ context.Context, eprintID string, version int) ([]entities.Assertion, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []entities.Assertion
	for _, a := range m.rows {
		if a.EPrintID != eprintID {
			continue
		}
		if version != entities.VersionAny && a.EPrintVersion != version && a.EPrintVersion != entities.VersionAny {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// CountAssertions returns the number of committed assertions.
func (m *AssertionStore) CountAssertions(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}
