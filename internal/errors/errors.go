package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeValidation indicates malformed or incomplete input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInfra indicates a transient infrastructure failure (network, VCS, forge, DB).
	ErrCodeInfra ErrorCode = "infra"
	// ErrCodeAgent indicates the code-generation agent produced unusable output.
	ErrCodeAgent ErrorCode = "agent"
	// ErrCodeConflict indicates a conflicting concurrent update or duplicate submission.
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeInvalidState indicates an operation applied to a job in the wrong lifecycle state.
	ErrCodeInvalidState ErrorCode = "invalid_state"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Infra creates a new Infra error.
func Infra(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInfra,
		Message: message,
	}
}

// Infraf creates a new Infra error with formatted message.
func Infraf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInfra,
		Message: fmt.Sprintf(format, args...),
	}
}

// Agent creates a new Agent error.
func Agent(message string) *AppError {
	return &AppError{
		Code:    ErrCodeAgent,
		Message: message,
	}
}

// Agentf creates a new Agent error with formatted message.
func Agentf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeAgent,
		Message: fmt.Sprintf(format, args...),
	}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// Conflictf creates a new Conflict error with formatted message.
func Conflictf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidState creates a new InvalidState error.
func InvalidState(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidState,
		Message: message,
	}
}

// InvalidStatef creates a new InvalidState error with formatted message.
func InvalidStatef(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf(format, args...),
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsInfra checks if an error is an Infra error.
func IsInfra(err error) bool {
	return isCode(err, ErrCodeInfra)
}

// IsAgent checks if an error is an Agent error.
func IsAgent(err error) bool {
	return isCode(err, ErrCodeAgent)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsInvalidState checks if an error is an InvalidState error.
func IsInvalidState(err error) bool {
	return isCode(err, ErrCodeInvalidState)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
