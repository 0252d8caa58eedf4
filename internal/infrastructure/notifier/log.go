// Package notifier provides change-event publishers outside of any specific
// messaging backend.
package notifier

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/arxiv/relations-core/internal/domain/entities"
)

// Log implements ports.Notifier by writing each change event to the log.
// Used when no event stream is configured, so the emitted event contract
// stays observable in development setups.
type Log struct{}

// NewLog creates a log-only notifier.
func NewLog() *Log {
	return &Log{}
}

// Publish logs the change event.
func (n *Log) Publish(_ context.Context, ev *entities.ChangeEvent) error {
	logrus.WithFields(logrus.Fields{
		"assertion_id":   ev.AssertionID,
		"action":         ev.Action,
		"relation_type":  ev.Relation,
		"eprint_id":      ev.EPrintID,
		"eprint_version": ev.EPrintVersion,
		"resource_type":  ev.ResourceType,
		"resource_id":    ev.ResourceID,
		"creator":        ev.Creator.String(),
	}).Info("change event")
	return nil
}

// Close is a no-op.
func (n *Log) Close() error { return nil }
