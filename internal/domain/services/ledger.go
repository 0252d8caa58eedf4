package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/domain/ports"
)

// ErrNoSuchRelation is returned when a relation key or assertion ID does not
// match any committed assertion.
var ErrNoSuchRelation = errors.New("no assertions match the given relation")

// LedgerService is the assertion ledger engine. It validates candidate
// assertions against prior history, appends accepted ones to the store, and
// reconstructs current-state views and provenance chains by folding history.
//
// The service keeps no mutable state of its own; all state lives in the
// store, so it is safe for concurrent use. The single-active-parent rule is
// ultimately enforced by the store's compare-and-append semantics, which this
// service relies on to resolve races it cannot see.
type LedgerService struct {
	store     ports.AssertionStore
	verifiers *VerifierRegistry
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store ports.AssertionStore, verifiers *VerifierRegistry) *LedgerService {
	return &LedgerService{
		store:     store,
		verifiers: verifiers,
	}
}

// Submit validates a candidate assertion and appends it to the ledger.
// Validation order: structural, referential, resource existence. On success
// the persisted record is returned with its store-assigned ID and CreatedAt.
// Failures before the append leave no side effects; a failed append leaves
// none either, so resubmitting is always safe.
func (s *LedgerService) Submit(ctx context.Context, cand entities.Candidate) (*entities.Assertion, error) {
	if err := validateCandidate(cand); err != nil {
		return nil, err
	}

	a := &entities.Assertion{
		Action:        cand.Action,
		Relation:      cand.Relation,
		EPrintID:      cand.EPrintID,
		EPrintVersion: cand.EPrintVersion,
		Resource:      cand.Resource,
		Description:   cand.Description,
		Creator:       cand.Creator,
		Prior:         cand.Prior,
	}

	if cand.Prior != nil {
		prior, err := s.checkPrior(ctx, cand)
		if err != nil {
			return nil, err
		}
		if cand.Action == entities.ActionSuppress {
			// A retraction documents what it retracts.
			a.Relation = prior.Relation
			a.Resource = prior.Resource
		}
	}

	// Retractions must always be possible, so existence is checked only for
	// create and supersede.
	if cand.Action != entities.ActionSuppress {
		ok, err := s.verifiers.Verify(ctx, a.Resource.Type, a.Resource.Identifier)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &entities.ValidationError{
				Kind:  entities.ValidationResourceUnverifiable,
				Field: "resource_identifier",
				Msg:   fmt.Sprintf("resource %q does not exist", a.Resource.Identifier),
			}
		}
	}

	if err := s.store.Append(ctx, a); err != nil {
		if errors.Is(err, ports.ErrPriorTaken) {
			// Lost a race: someone else superseded or suppressed the same
			// parent between our check and the append. Compare-and-append,
			// not a queue: the caller must resubmit against the new head.
			return nil, &entities.ValidationError{
				Kind:  entities.ValidationPriorNotActive,
				Field: "prior",
				Msg:   fmt.Sprintf("assertion %d is no longer the active head", *cand.Prior),
			}
		}
		var se *entities.StoreError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, &entities.StoreError{Op: "append", Err: err}
	}

	a.Status = entities.StatusActive
	if a.Action == entities.ActionSuppress {
		a.Status = entities.StatusSuppressed
	}
	return a, nil
}

// checkPrior performs referential validation for supersede and suppress
// candidates and returns the prior assertion. Status is recomputed from the
// store at call time, never cached.
func (s *LedgerService) checkPrior(ctx context.Context, cand entities.Candidate) (*entities.Assertion, error) {
	prior, err := s.store.FindByID(ctx, *cand.Prior)
	if err != nil {
		return nil, &entities.StoreError{Op: "find prior", Err: err}
	}
	if prior == nil {
		return nil, &entities.ValidationError{
			Kind:  entities.ValidationBadReference,
			Field: "prior",
			Msg:   fmt.Sprintf("assertion %d does not exist", *cand.Prior),
		}
	}

	if prior.Action == entities.ActionSuppress {
		return nil, &entities.ValidationError{
			Kind:  entities.ValidationPriorNotActive,
			Field: "prior",
			Msg:   fmt.Sprintf("assertion %d is a suppression and cannot be extended", prior.ID),
		}
	}

	succ, err := s.store.FindSuccessor(ctx, prior.ID)
	if err != nil {
		return nil, &entities.StoreError{Op: "find successor", Err: err}
	}
	if succ != nil {
		return nil, &entities.ValidationError{
			Kind:  entities.ValidationPriorNotActive,
			Field: "prior",
			Msg:   fmt.Sprintf("assertion %d was already %sd by assertion %d", prior.ID, succ.Action, succ.ID),
		}
	}

	if cand.EPrintID != prior.EPrintID || cand.EPrintVersion != prior.EPrintVersion {
		return nil, &entities.ValidationError{
			Kind:  entities.ValidationBadReference,
			Field: "eprint_id",
			Msg:   fmt.Sprintf("candidate targets %s v%d but assertion %d belongs to %s v%d", cand.EPrintID, cand.EPrintVersion, prior.ID, prior.EPrintID, prior.EPrintVersion),
		}
	}

	// Relation and resource type are immutable along a chain: an edit refines
	// the identifier or description, it does not move the relation into a
	// different category.
	if cand.Action == entities.ActionSupersede {
		if cand.Relation != prior.Relation {
			return nil, &entities.ValidationError{
				Kind:  entities.ValidationTypeMismatch,
				Field: "relation_type",
				Msg:   fmt.Sprintf("cannot change relation type from %q to %q", prior.Relation, cand.Relation),
			}
		}
		if cand.Resource.Type != prior.Resource.Type {
			return nil, &entities.ValidationError{
				Kind:  entities.ValidationTypeMismatch,
				Field: "resource_type",
				Msg:   fmt.Sprintf("cannot change resource type from %q to %q", prior.Resource.Type, cand.Resource.Type),
			}
		}
	}

	return prior, nil
}

// validateCandidate performs structural validation: exactly one of
// create/supersede/suppress, and required fields per action.
func validateCandidate(cand entities.Candidate) error {
	switch cand.Action {
	case entities.ActionCreate:
		if cand.Prior != nil {
			return &entities.ValidationError{
				Kind:  entities.ValidationMissingField,
				Field: "prior",
				Msg:   "a create must not reference a prior assertion",
			}
		}
	case entities.ActionSupersede, entities.ActionSuppress:
		if cand.Prior == nil {
			return &entities.ValidationError{
				Kind:  entities.ValidationMissingField,
				Field: "prior",
				Msg:   fmt.Sprintf("a %s must reference a prior assertion", cand.Action),
			}
		}
	default:
		return &entities.ValidationError{
			Kind:  entities.ValidationMissingField,
			Field: "action",
			Msg:   fmt.Sprintf("unknown action %q", cand.Action),
		}
	}

	if cand.EPrintID == "" {
		return missingField("eprint_id")
	}
	if cand.EPrintVersion < entities.VersionAny {
		return &entities.ValidationError{
			Kind:  entities.ValidationMissingField,
			Field: "eprint_version",
			Msg:   "version must be zero (paper-level) or positive",
		}
	}
	if cand.Creator.ClientID == "" {
		return missingField("creator.client_id")
	}
	if cand.Creator.UserID == "" {
		return missingField("creator.user_id")
	}

	// For a suppress the relation and resource are copied from the prior.
	if cand.Action != entities.ActionSuppress {
		if cand.Relation == "" {
			return missingField("relation_type")
		}
		if cand.Resource.Type == "" {
			return missingField("resource_type")
		}
		if cand.Resource.Identifier == "" {
			return missingField("resource_identifier")
		}
	}

	return nil
}

func missingField(field string) error {
	return &entities.ValidationError{
		Kind:  entities.ValidationMissingField,
		Field: field,
		Msg:   "required field is missing",
	}
}

// Aggregate folds every assertion for the e-print into logical relations and
// returns the current, non-retracted view: one entry per chain whose head is
// not a suppression. Passing entities.VersionAny aggregates across all
// versions. Ordering is stable by (relation type, resource type, resource
// identifier), ties broken by earliest creation.
func (s *LedgerService) Aggregate(ctx context.Context, eprintID string, version int) ([]entities.RelationView, error) {
	rows, err := s.store.FindByEPrint(ctx, eprintID, version)
	if err != nil {
		return nil, &entities.StoreError{Op: "find by eprint", Err: err}
	}

	views := make([]entities.RelationView, 0, len(rows))
	for _, chain := range foldChains(rows) {
		head := chain[len(chain)-1]
		if head.Action == entities.ActionSuppress {
			continue
		}
		root := chain[0]
		views = append(views, entities.RelationView{
			AssertionID:     head.ID,
			Relation:        head.Relation,
			EPrintID:        head.EPrintID,
			EPrintVersion:   head.EPrintVersion,
			Resource:        head.Resource,
			Description:     head.Description,
			Creator:         head.Creator,
			FirstAssertedAt: root.CreatedAt,
			UpdatedAt:       head.CreatedAt,
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.Relation != b.Relation {
			return a.Relation < b.Relation
		}
		if a.Resource.Type != b.Resource.Type {
			return a.Resource.Type < b.Resource.Type
		}
		if a.Resource.Identifier != b.Resource.Identifier {
			return a.Resource.Identifier < b.Resource.Identifier
		}
		return a.FirstAssertedAt.Before(b.FirstAssertedAt)
	})

	return views, nil
}

// Provenance returns the full chain for a logical relation, oldest first,
// including superseded and suppressed entries. Each entry carries the status
// it holds relative to its position in the chain. A chain matches the key if
// any of its assertions carried the key's resource identifier, since a
// supersede may have corrected it. When duplicated creates produced several
// matching chains, the most recently created one is returned; ProvenanceByID
// is the unambiguous accessor.
func (s *LedgerService) Provenance(ctx context.Context, key entities.RelationKey) ([]entities.Assertion, error) {
	rows, err := s.store.FindByEPrint(ctx, key.EPrintID, key.EPrintVersion)
	if err != nil {
		return nil, &entities.StoreError{Op: "find by eprint", Err: err}
	}

	var match []entities.Assertion
	for _, chain := range foldChains(rows) {
		if !chainMatchesKey(chain, key) {
			continue
		}
		if match == nil || chain[0].ID > match[0].ID {
			match = chain
		}
	}
	if match == nil {
		return nil, ErrNoSuchRelation
	}
	return match, nil
}

// ProvenanceByID returns the full chain containing the given assertion,
// oldest first, with per-entry derived status.
func (s *LedgerService) ProvenanceByID(ctx context.Context, id int64) ([]entities.Assertion, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, &entities.StoreError{Op: "find by id", Err: err}
	}
	if a == nil {
		return nil, ErrNoSuchRelation
	}

	// Walk back to the creating assertion.
	chain := []entities.Assertion{*a}
	for chain[0].Prior != nil {
		prior, err := s.store.FindByID(ctx, *chain[0].Prior)
		if err != nil {
			return nil, &entities.StoreError{Op: "find prior", Err: err}
		}
		if prior == nil {
			return nil, &entities.StoreError{Op: "find prior", Err: fmt.Errorf("assertion %d references missing prior %d", chain[0].ID, *chain[0].Prior)}
		}
		chain = append([]entities.Assertion{*prior}, chain...)
	}

	// Walk forward to the head.
	for {
		succ, err := s.store.FindSuccessor(ctx, chain[len(chain)-1].ID)
		if err != nil {
			return nil, &entities.StoreError{Op: "find successor", Err: err}
		}
		if succ == nil {
			break
		}
		chain = append(chain, *succ)
	}

	annotateChain(chain)
	return chain, nil
}

func chainMatchesKey(chain []entities.Assertion, key entities.RelationKey) bool {
	head := chain[len(chain)-1]
	if head.Relation != key.Relation || head.Resource.Type != key.ResourceType {
		return false
	}
	for _, a := range chain {
		if a.EPrintVersion != key.EPrintVersion {
			return false
		}
		if a.Resource.Identifier == key.ResourceID {
			return true
		}
	}
	return false
}
