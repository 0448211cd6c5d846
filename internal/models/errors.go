package models

import "errors"

// Sentinel errors shared across storage and service layers. Transport
// code maps these onto protocol status codes with errors.Is.
var (
	// ErrGroupNotFound is returned when a referenced group does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrExpenseNotFound is returned when a referenced expense does not
	// exist in the given group.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrMemberNotFound is returned when a user is not on a group's roster.
	ErrMemberNotFound = errors.New("member not found")

	// ErrNothingToSettle is returned when a settlement is requested in a
	// direction with nothing currently owed. This is a conflict, not a
	// validation failure: the request was well-formed but stale relative
	// to the group's current state.
	ErrNothingToSettle = errors.New("nothing left to settle between these members")
)

// ValidationError reports malformed input: non-positive amounts, missing
// identifiers, unknown split modes.
type ValidationError struct {
	Reason string
}

// NewValidationError creates a ValidationError with the given reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
