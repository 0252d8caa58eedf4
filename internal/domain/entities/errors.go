package entities

import (
	"errors"
	"fmt"
)

// ValidationKind classifies a ValidationError.
type ValidationKind string

const (
	// ValidationMissingField means a structurally required field was absent.
	ValidationMissingField ValidationKind = "missing-field"
	// ValidationBadReference means the referenced prior assertion does not exist.
	ValidationBadReference ValidationKind = "bad-reference"
	// ValidationPriorNotActive means the referenced prior assertion is no
	// longer the active head of its chain.
	ValidationPriorNotActive ValidationKind = "prior-not-active"
	// ValidationTypeMismatch means a supersede tried to change the relation
	// or resource type, which are immutable along a chain.
	ValidationTypeMismatch ValidationKind = "type-mismatch"
	// ValidationResourceUnverifiable means the existence check for the
	// resource returned false.
	ValidationResourceUnverifiable ValidationKind = "resource-unverifiable"
)

// ValidationError reports a structural or referential violation in a
// candidate assertion. Always recoverable by resubmitting corrected input.
type ValidationError struct {
	Kind  ValidationKind
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed (%s): %s: %s", e.Kind, e.Field, e.Msg)
	}
	return fmt.Sprintf("validation failed (%s): %s", e.Kind, e.Msg)
}

// IsValidation reports whether err is a ValidationError, optionally of the
// given kind (empty kind matches any).
func IsValidation(err error, kind ValidationKind) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	return kind == "" || ve.Kind == kind
}

// VerificationKind classifies a VerificationError.
type VerificationKind string

const (
	// VerificationUnreachable means the resource could not be checked because
	// the verifier's backend was unreachable after bounded retries.
	VerificationUnreachable VerificationKind = "unreachable"
	// VerificationMalformed means the identifier is not well-formed for its
	// resource type.
	VerificationMalformed VerificationKind = "malformed"
	// VerificationUnsupported means the verifier cannot handle the identifier.
	VerificationUnsupported VerificationKind = "unsupported"
)

// VerificationError reports a failed resource-existence check. Existence is a
// precondition for create and supersede; there is no force-override.
type VerificationError struct {
	Kind       VerificationKind
	Identifier string
	Err        error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("verification failed (%s) for %q: %v", e.Kind, e.Identifier, e.Err)
	}
	return fmt.Sprintf("verification failed (%s) for %q", e.Kind, e.Identifier)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// StoreError reports a persistence failure. The submission either fully
// succeeded or fully failed, so retrying the whole submission is safe.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NotificationError reports a failed change-event publish. Non-fatal: the
// assertion is already committed and is never rolled back for this.
type NotificationError struct {
	AssertionID int64
	Err         error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify assertion %d: %v", e.AssertionID, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
