package entities

import "time"

// ChangeEvent is the record emitted downstream for every committed assertion.
// The event stream is a best-effort signal; the ledger remains the source of
// truth.
type ChangeEvent struct {
	AssertionID   int64        `json:"assertion_id"`
	Action        Action       `json:"action"`
	Relation      RelationType `json:"relation_type"`
	EPrintID      string       `json:"eprint_id"`
	EPrintVersion int          `json:"eprint_version"`
	ResourceType  ResourceType `json:"resource_type"`
	ResourceID    string       `json:"resource_identifier"`
	Creator       Creator      `json:"creator"`
	CreatedAt     time.Time    `json:"created_at"`
}

// NewChangeEvent builds the event payload for a committed assertion.
func NewChangeEvent(a *Assertion) *ChangeEvent {
	return &ChangeEvent{
		AssertionID:   a.ID,
		Action:        a.Action,
		Relation:      a.Relation,
		EPrintID:      a.EPrintID,
		EPrintVersion: a.EPrintVersion,
		ResourceType:  a.Resource.Type,
		ResourceID:    a.Resource.Identifier,
		Creator:       a.Creator,
		CreatedAt:     a.CreatedAt,
	}
}
