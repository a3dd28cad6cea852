package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the gallery's failure taxonomy. Typed errors below
// unwrap to these so callers can branch with errors.Is.
var (
	// ErrNotFound is returned when a lookup misses an expected entity.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for oversized or malformed metadata.
	// Always raised before any mutation is staged.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when an operation would violate a
	// uniqueness invariant (duplicate identity or version).
	ErrConflict = errors.New("conflict")

	// ErrAuthorization is returned when the acting user is not an owner
	// of an existing registration.
	ErrAuthorization = errors.New("not authorized")

	// ErrInvariant is returned for illegal state transitions. It is a
	// programming or data-integrity signal, never retried.
	ErrInvariant = errors.New("invariant violation")
)

// ValidationError describes a metadata field that failed validation.
type ValidationError struct {
	Field  string
	Limit  int    // allowed bound, when the failure is a length cap
	Reason string // set when the failure is not a length cap
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("field %q exceeds %d characters", e.Field, e.Limit)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConflictError reports a duplicate registration or version identity.
type ConflictError struct {
	ID      string
	Version string // empty for registration-level conflicts
}

func (e *ConflictError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("package %s version %s already exists", e.ID, e.Version)
	}
	return fmt.Sprintf("package id %s already exists", e.ID)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// AuthorizationError reports that a package identity is registered to
// someone else.
type AuthorizationError struct {
	ID   string
	User string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("package id %s is not available to user %s", e.ID, e.User)
}

func (e *AuthorizationError) Unwrap() error {
	return ErrAuthorization
}

// InvariantError reports an attempted illegal state transition.
type InvariantError struct {
	Op     string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// NotFoundError wraps ErrNotFound with the identity that missed.
type NotFoundError struct {
	ID      string
	Version string
}

func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("package %s version %s not found", e.ID, e.Version)
	}
	return fmt.Sprintf("package %s not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
