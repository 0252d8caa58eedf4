package entities

import "time"

// RelationKey identifies a logical relation: the abstract fact whose truth is
// the fold of an assertion chain. Because a supersede may correct the resource
// identifier, the key matches a chain if any assertion in the chain carried
// this identifier.
type RelationKey struct {
	EPrintID      string       `json:"eprint_id"`
	EPrintVersion int          `json:"eprint_version"`
	Relation      RelationType `json:"relation_type"`
	ResourceType  ResourceType `json:"resource_type"`
	ResourceID    string       `json:"resource_identifier"`
}

// RelationView is the current, non-retracted state of one logical relation,
// as presented by aggregation. Description, resource and creator come from
// the chain head; FirstAssertedAt comes from the creating assertion.
type RelationView struct {
	AssertionID     int64        `json:"assertion_id"`
	Relation        RelationType `json:"relation_type"`
	EPrintID        string       `json:"eprint_id"`
	EPrintVersion   int          `json:"eprint_version"`
	Resource        Resource     `json:"resource"`
	Description     string       `json:"description,omitempty"`
	Creator         Creator      `json:"creator"`
	FirstAssertedAt time.Time    `json:"first_asserted_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
