package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions callers are expected to branch on.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotMember       = errors.New("not a team member")
)

// ValidationError marks input the caller can correct (empty fields,
// undersized passwords). Detected locally, never from a remote store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps any unrecognized failure from a remote store. The
// wrapped error is for logs only; handlers must not leak it to clients.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// OrphanedIdentityError reports registration's known partial-failure state:
// the identity record was created but the profile document was not. There is
// no automatic rollback; the account id is kept so an operator can clean up
// or the caller can retry with a fresh id.
type OrphanedIdentityError struct {
	AccountID string
	Err       error
}

func (e *OrphanedIdentityError) Error() string {
	return fmt.Sprintf("identity %s created but profile creation failed: %v", e.AccountID, e.Err)
}

func (e *OrphanedIdentityError) Unwrap() error {
	return e.Err
}
