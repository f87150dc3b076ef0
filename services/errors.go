package services

import (
	"errors"
	"fmt"

	"tally-pipeline-api/models"
)

// Sentinel errors for expected workflow failures. Controllers match on these
// with errors.Is and translate them to client-facing responses; anything
// else is treated as an infrastructure failure.
var (
	ErrIllegalTransition   = errors.New("illegal form state transition")
	ErrNoDoubleEntry       = errors.New("result form has no double entries")
	ErrAlreadyIntaken      = errors.New("result form already entered intake")
	ErrSuspiciousOperation = errors.New("suspicious operation")
	ErrSameUserDoubleEntry = errors.New("data entry 2 must be performed by a different user")
	ErrEntryOwnedByOther   = errors.New("active data entry owned by a different user")
	ErrNotPermitted        = errors.New("user does not have the required capability")
	ErrDuplicateRequest    = errors.New("a pending request of this type already exists for the form")
	ErrRequestNotPending   = errors.New("workflow request is not pending")
	ErrBallotReleased      = errors.New("ballot released for results is read-only")
	ErrBarcodeTaken        = errors.New("barcode already in use")
)

// IllegalTransitionError wraps ErrIllegalTransition with the offending pair.
type IllegalTransitionError struct {
	From models.FormState
	To   models.FormState
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal form state transition from %s to %s", e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}
