package handlers

import (
	"context"

	"github.com/arxiv/relations-core/internal/domain/ports"
)

// ServiceStatus reports whether the ledger is ready to handle requests.
type ServiceStatus struct {
	StoreReachable bool `json:"store_reachable"`
	Assertions     int  `json:"assertions"`
}

// StatusHandler answers service status requests.
type StatusHandler struct {
	store ports.AssertionStore
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(store ports.AssertionStore) *StatusHandler {
	return &StatusHandler{store: store}
}

// HandleStatus checks store reachability and returns the assertion count.
func (h *StatusHandler) HandleStatus(ctx context.Context) ServiceStatus {
	count, err := h.store.CountAssertions(ctx)
	if err != nil {
		return ServiceStatus{}
	}
	return ServiceStatus{StoreReachable: true, Assertions: count}
}
