// Package domain defines the error kinds shared by the amortization domain.
package domain

import "fmt"

// ValidationError indicates invalid input such as non-positive principal.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError indicates a loan or user does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError indicates the caller is neither owner nor grantee of a loan.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// NotOwnerError indicates a share was attempted by someone other than the owner.
type NotOwnerError struct {
	Message string
}

func (e *NotOwnerError) Error() string { return e.Message }

// OutOfRangeError indicates a month outside [1, term_months].
type OutOfRangeError struct {
	Message string
}

func (e *OutOfRangeError) Error() string { return e.Message }

// ConflictError indicates a uniqueness violation (e.g., duplicate email).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UnauthenticatedError indicates a missing or unknown API key.
type UnauthenticatedError struct {
	Message string
}

func (e *UnauthenticatedError) Error() string { return e.Message }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrNotOwner creates a NotOwnerError with a formatted message.
func ErrNotOwner(format string, args ...interface{}) *NotOwnerError {
	return &NotOwnerError{Message: fmt.Sprintf(format, args...)}
}

// ErrOutOfRange creates an OutOfRangeError with a formatted message.
func ErrOutOfRange(format string, args ...interface{}) *OutOfRangeError {
	return &OutOfRangeError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrUnauthenticated creates an UnauthenticatedError with a formatted message.
func ErrUnauthenticated(format string, args ...interface{}) *UnauthenticatedError {
	return &UnauthenticatedError{Message: fmt.Sprintf(format, args...)}
}
