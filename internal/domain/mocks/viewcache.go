package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/arxiv/relations-core/internal/domain/entities"
)

// ViewCache is an in-memory mock of ports.ViewCache.
type ViewCache struct {
	mu    sync.Mutex
	views map[string][]entities.RelationView

	// Err, when set, is returned by every operation.
	Err error

	// Hits and Misses count GetAggregate outcomes.
	Hits, Misses int
}

// NewViewCache creates an empty mock cache.
func NewViewCache() *ViewCache {
	return &ViewCache{views: make(map[string][]entities.RelationView)}
}

func cacheKey(eprintID string, version int) string {
	return fmt.Sprintf("%s:%d", eprintID, version)
}

// GetAggregate returns the cached view, if any.
func (m *ViewCache) GetAggregate(_ context.Context, eprintID string, version int) ([]entities.RelationView, bool, error) {
	if m.Err != nil {
		return nil, false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	views, ok := m.views[cacheKey(eprintID, version)]
	if ok {
		m.Hits++
	} else {
		m.Misses++
	}
	return views, ok, nil
}

// SetAggregate stores a view.
func (m *ViewCache) SetAggregate(_ context.Context, eprintID string, version int, views []entities.RelationView) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[cacheKey(eprintID, version)] = views
	return nil
}

// InvalidateEPrint drops every cached view for the e-print.
func (m *ViewCache) InvalidateEPrint(_ context.Context, eprintID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := eprintID + ":"
	for k := range m.views {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(m.views, k)
		}
	}
	return nil
}

// Close is a no-op.
func (m *ViewCache) Close() error { return nil }
