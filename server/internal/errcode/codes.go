// Package errcode carries structured error codes from the service layer to
// the transport layer, which maps them onto HTTP statuses.
package errcode

import (
	"fmt"
)

// ErrorCode represents a specific error type for service operations.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the requested entity does not exist or is
	// not visible to the caller.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeConflict indicates the operation collides with existing state.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeUnauthorized indicates authentication failure.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeFailedPrecondition indicates the entity is not in a state that
	// permits the operation.
	ErrCodeFailedPrecondition ErrorCode = "FAILED_PRECONDITION"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// ServiceError represents a structured error for service operations.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common error types.

// NotFound creates a not found error.
func NotFound(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeNotFound, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeInvalidArgument, Message: msg}
}

// Conflict creates a conflict error.
func Conflict(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeConflict, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeUnauthorized, Message: msg}
}

// FailedPrecondition creates a failed precondition error.
func FailedPrecondition(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeFailedPrecondition, Message: msg}
}

// Internal wraps an unexpected failure.
func Internal(msg string, cause error) *ServiceError {
	return &ServiceError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if svcErr, ok := err.(*ServiceError); ok {
		return svcErr.Code == code
	}
	return false
}

// CodeOf extracts the error code from any error, defaulting to internal.
func CodeOf(err error) ErrorCode {
	if svcErr, ok := err.(*ServiceError); ok {
		return svcErr.Code
	}
	return ErrCodeInternal
}
