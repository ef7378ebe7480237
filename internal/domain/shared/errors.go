// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Validation errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrInvalidFormat = errors.New("invalid format")

	// State errors
	ErrNotFound     = errors.New("entity not found")
	ErrInvalidState = errors.New("invalid state")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "portal", "state", "notify"
	Op      string // Operation that failed, e.g., "Authenticate", "Save"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Credential errors. A credential failure skips the whole check cycle.
var (
	ErrCredentialsNotFound = NewDomainError("credentials", "Resolve", ErrNotFound, "no credentials configured, run 'uqgrd credentials' first")
	ErrCredentialsCorrupt  = NewDomainError("credentials", "Resolve", ErrInvalidFormat, "credential config is unreadable")
)

// Portal errors. Authentication and transcript failures skip the cycle;
// a course detail failure skips only that course.
var (
	ErrAuthFailed     = NewDomainError("portal", "Authenticate", ErrUnauthorized, "portal authentication failed")
	ErrEmptyToken     = NewDomainError("portal", "Authenticate", ErrInvalidState, "received empty token from portal")
	ErrDetailNotFound = NewDomainError("portal", "FetchCourseDetail", ErrNotFound, "course detail missing from response")
	ErrInvalidPayload = NewDomainError("portal", "Parse", ErrInvalidFormat, "invalid response from portal")
)

// Grade state errors. State failures are surfaced for the current cycle
// only; the loop keeps running.
var (
	ErrStateLoad = NewDomainError("state", "Load", ErrInvalidState, "failed to load grade state")
	ErrStateSave = NewDomainError("state", "Save", ErrInvalidState, "failed to save grade state")
)

// Notification errors. A notify failure never blocks the state update.
var (
	ErrNotifyConfigMissing = NewDomainError("notify", "Send", ErrInvalidState, "SMTP configuration is missing")
	ErrNotifyFailed        = NewDomainError("notify", "Send", ErrExternalService, "failed to send notification")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
