// Package apperrors defines the error taxonomy shared by the service and
// storage layers. Translation to HTTP status codes happens only in
// middlewares.ErrorHandler.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskNotFound covers both a genuinely absent id and an id owned by
	// another tenant. The two cases must stay indistinguishable to callers.
	ErrTaskNotFound = errors.New("task not found")

	// ErrStorageUnavailable replaces any raw storage/driver error before it
	// crosses the service boundary.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// AuthReason classifies why verification failed. Reasons are for logs only;
// clients always get the same generic 401.
type AuthReason string

const (
	ReasonMalformedToken  AuthReason = "malformed_token"
	ReasonUnknownKey      AuthReason = "unknown_key"
	ReasonBadSignature    AuthReason = "bad_signature"
	ReasonExpired         AuthReason = "expired"
	ReasonMissingSubject  AuthReason = "missing_subject"
	ReasonKeysUnavailable AuthReason = "keys_unavailable"
)

// AuthError is the single failure type returned by token verification.
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed (%s)", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError wraps err with a classified reason. err may be nil.
func NewAuthError(reason AuthReason, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}

// ValidationError reports a single violated field constraint (422).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a named field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
