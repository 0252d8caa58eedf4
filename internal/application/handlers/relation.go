// Package handlers contains the application-level orchestrators that sit
// between callers (CLI, API layers) and the domain services.
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/domain/ports"
	"github.com/arxiv/relations-core/internal/domain/services"
)

// DefaultNotifyTimeout bounds how long a submission waits on the change-event
// publish. The event stream is a downstream signal, not a transaction
// participant, so excess latency there must not delay the response.
const DefaultNotifyTimeout = 2 * time.Second

// ValidRelationTypes lists the accepted relation type strings.
var ValidRelationTypes = []string{
	"is-described-by", "has-dataset", "has-code",
	"is-version-of", "has-published-version", "has-multimedia", "is-related-to",
}

// RelationHandler orchestrates submissions and reads: it marshals caller
// input into candidates, runs them through the ledger, invalidates the view
// cache, and publishes change events best-effort.
type RelationHandler struct {
	ledger        *services.LedgerService
	notifier      ports.Notifier
	cache         ports.ViewCache
	notifyTimeout time.Duration
}

// NewRelationHandler creates a new RelationHandler. notifier and cache may be
// nil when those collaborators are not configured.
func NewRelationHandler(ledger *services.LedgerService, notifier ports.Notifier, cache ports.ViewCache) *RelationHandler {
	return &RelationHandler{
		ledger:        ledger,
		notifier:      notifier,
		cache:         cache,
		notifyTimeout: DefaultNotifyTimeout,
	}
}

// SubmitInput is the caller-facing shape of a submission.
type SubmitInput struct {
	EPrintID      string
	EPrintVersion int
	RelationType  string
	ResourceType  string
	ResourceID    string
	Description   string
	Creator       entities.Creator
}

// HandleAdd records a new relation for an e-print.
func (h *RelationHandler) HandleAdd(ctx context.Context, in SubmitInput) (*entities.Assertion, error) {
	cand, err := h.candidate(entities.ActionCreate, in, nil)
	if err != nil {
		return nil, err
	}
	return h.submit(ctx, cand)
}

// HandleSupersede records a corrected relation replacing a prior assertion.
func (h *RelationHandler) HandleSupersede(ctx context.Context, priorID int64, in SubmitInput) (*entities.Assertion, error) {
	cand, err := h.candidate(entities.ActionSupersede, in, &priorID)
	if err != nil {
		return nil, err
	}
	return h.submit(ctx, cand)
}

// HandleSuppress retracts a prior assertion. The relation and resource are
// taken from the retracted assertion; only the description is caller-supplied.
func (h *RelationHandler) HandleSuppress(ctx context.Context, priorID int64, eprintID string, eprintVersion int, description string, creator entities.Creator) (*entities.Assertion, error) {
	cand := entities.Candidate{
		Action:        entities.ActionSuppress,
		EPrintID:      eprintID,
		EPrintVersion: eprintVersion,
		Description:   description,
		Creator:       creator,
		Prior:         &priorID,
	}
	return h.submit(ctx, cand)
}

func (h *RelationHandler) candidate(action entities.Action, in SubmitInput, prior *int64) (entities.Candidate, error) {
	relType, err := parseRelationType(in.RelationType)
	if err != nil {
		return entities.Candidate{}, err
	}
	return entities.Candidate{
		Action:        action,
		Relation:      relType,
		EPrintID:      in.EPrintID,
		EPrintVersion: in.EPrintVersion,
		Resource: entities.Resource{
			Type:       entities.ResourceType(in.ResourceType),
			Identifier: in.ResourceID,
		},
		Description: in.Description,
		Creator:     in.Creator,
		Prior:       prior,
	}, nil
}

// submit runs the candidate through the ledger and, on success, invalidates
// the cached views and publishes the change event. Notification failures are
// logged as warnings and never fail the submission.
func (h *RelationHandler) submit(ctx context.Context, cand entities.Candidate) (*entities.Assertion, error) {
	a, err := h.ledger.Submit(ctx, cand)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"assertion_id": a.ID,
		"action":       a.Action,
		"eprint_id":    a.EPrintID,
		"relation":     a.Relation,
	}).Info("assertion committed")

	if h.cache != nil {
		if err := h.cache.InvalidateEPrint(ctx, a.EPrintID); err != nil {
			logrus.Warnf("invalidating view cache for %s: %v", a.EPrintID, err)
		}
	}

	if h.notifier != nil {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.notifyTimeout)
		defer cancel()
		if err := h.notifier.Publish(nctx, entities.NewChangeEvent(a)); err != nil {
			nerr := &entities.NotificationError{AssertionID: a.ID, Err: err}
			logrus.Warnf("change event not delivered: %v", nerr)
		}
	}

	return a, nil
}

// HandleList returns the aggregated current relations for an e-print,
// consulting the view cache first when one is configured.
func (h *RelationHandler) HandleList(ctx context.Context, eprintID string, version int) ([]entities.RelationView, error) {
	if h.cache != nil {
		views, ok, err := h.cache.GetAggregate(ctx, eprintID, version)
		if err != nil {
			logrus.Warnf("reading view cache for %s: %v", eprintID, err)
		} else if ok {
			return views, nil
		}
	}

	views, err := h.ledger.Aggregate(ctx, eprintID, version)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.SetAggregate(ctx, eprintID, version, views); err != nil {
			logrus.Warnf("writing view cache for %s: %v", eprintID, err)
		}
	}
	return views, nil
}

// HandleProvenance returns the full history of a logical relation.
func (h *RelationHandler) HandleProvenance(ctx context.Context, eprintID string, version int, relationType, resourceType, resourceID string) ([]entities.Assertion, error) {
	relType, err := parseRelationType(relationType)
	if err != nil {
		return nil, err
	}
	return h.ledger.Provenance(ctx, entities.RelationKey{
		EPrintID:      eprintID,
		EPrintVersion: version,
		Relation:      relType,
		ResourceType:  entities.ResourceType(resourceType),
		ResourceID:    resourceID,
	})
}

// HandleProvenanceByID returns the full history of the chain containing the
// given assertion.
func (h *RelationHandler) HandleProvenanceByID(ctx context.Context, id int64) ([]entities.Assertion, error) {
	return h.ledger.ProvenanceByID(ctx, id)
}

// parseRelationType validates and converts a relation type string.
func parseRelationType(s string) (entities.RelationType, error) {
	for _, valid := range ValidRelationTypes {
		if s == valid {
			return entities.RelationType(s), nil
		}
	}
	return "", fmt.Errorf("invalid relation type: %s (valid: %s)", s, strings.Join(ValidRelationTypes, ", "))
}
