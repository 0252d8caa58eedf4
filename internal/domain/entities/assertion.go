// Package entities contains core domain data structures.
package entities

import "time"

// VersionAny marks an assertion as paper-level, applying to every version
// of the e-print rather than one specific version.
const VersionAny = 0

// Action describes how an assertion relates to prior history: it either
// states a new fact, replaces one prior assertion, or retracts one.
type Action string

const (
	ActionCreate    Action = "create"
	ActionSupersede Action = "supersede"
	ActionSuppress  Action = "suppress"
)

// Status is the derived state of an assertion within its chain. It is
// computed by folding history and never written to storage.
type Status string

const (
	StatusActive     Status = "active"
	StatusSuperseded Status = "superseded"
	StatusSuppressed Status = "suppressed"
)

// Creator identifies the authenticated client/user pair that submitted an
// assertion. Authentication itself happens upstream; the ledger only records
// the identity it is handed.
type Creator struct {
	ClientID string `json:"client_id"`
	UserID   string `json:"user_id"`
}

// String returns the creator in "client/user" form.
func (c Creator) String() string {
	return c.ClientID + "/" + c.UserID
}

// Assertion is one immutable record in the relation ledger. Once committed
// it is never updated or deleted; it is retired only logically, by a later
// assertion superseding or suppressing it.
type Assertion struct {
	ID            int64        `json:"id"`
	Action        Action       `json:"action"`
	Relation      RelationType `json:"relation_type"`
	EPrintID      string       `json:"eprint_id"`
	EPrintVersion int          `json:"eprint_version"`
	Resource      Resource     `json:"resource"`
	Description   string       `json:"description,omitempty"`
	Creator       Creator      `json:"creator"`

	// Prior references the assertion this record supersedes or suppresses.
	// Nil for create actions.
	Prior *int64 `json:"prior,omitempty"`

	// CreatedAt is assigned by the store at commit time, never by callers.
	CreatedAt time.Time `json:"created_at"`

	// Status is derived from chain position and filled in on read paths.
	Status Status `json:"status,omitempty"`
}

// Candidate is a submitted assertion before the ledger has validated it and
// the store has assigned ID and CreatedAt.
type Candidate struct {
	Action        Action
	Relation      RelationType
	EPrintID      string
	EPrintVersion int
	Resource      Resource
	Description   string
	Creator       Creator
	Prior         *int64
}
