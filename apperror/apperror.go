// Package apperror defines the application's error taxonomy. Domain code
// raises typed errors close to the violation; the HTTP boundary translates
// them once into the uniform response envelope.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors.
	UnknownError ErrorType = iota
	// ValidationError represents an input validation failure.
	ValidationError
	// ConflictError represents a duplicate unique key.
	ConflictError
	// BadRequestError represents a generic malformed request.
	BadRequestError
	// UnauthorizedError represents a missing, invalid or expired credential.
	UnauthorizedError
	// ForbiddenError represents an authenticated caller with an insufficient role.
	ForbiddenError
	// NotFoundError represents an absent entity.
	NotFoundError
	// TooManyRequestsError represents a rejected rate-limited request.
	TooManyRequestsError
	// DatabaseError represents an error originating from the database.
	DatabaseError
	// ConfigError represents an error in application configuration.
	ConfigError
	// InternalError represents an unexpected or downstream failure.
	InternalError
)

// AppError is the application error type. Messages carries per-field detail
// for multi-field validation failures; Message is used otherwise.
type AppError struct {
	Type     ErrorType
	Message  string
	Messages []string
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error type to its HTTP status code. Conflicts map to
// 400 rather than 409, matching the public API contract.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, ConflictError, BadRequestError:
		return http.StatusBadRequest
	case UnauthorizedError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case TooManyRequestsError:
		return http.StatusTooManyRequests
	case DatabaseError, ConfigError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns what may be shown to the caller: the list of field
// messages when present, the single message for client errors, and a generic
// message for 5xx so internals never leak.
func (e *AppError) ClientMessage() interface{} {
	if e.StatusCode() >= http.StatusInternalServerError {
		return "Internal Server Error"
	}
	if len(e.Messages) == 1 {
		return e.Messages[0]
	}
	if len(e.Messages) > 1 {
		return e.Messages
	}
	return e.Message
}

// NewAppError creates an AppError with an explicit type.
func NewAppError(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{Type: errType, Message: message, Err: underlying}
}

// NewValidationError creates a ValidationError carrying one message per
// failed field.
func NewValidationError(messages ...string) *AppError {
	msg := "validation failed"
	if len(messages) == 1 {
		msg = messages[0]
	}
	return &AppError{Type: ValidationError, Message: msg, Messages: messages}
}

// NewConflictError creates a ConflictError.
func NewConflictError(message string, underlying error) *AppError {
	return NewAppError(ConflictError, message, underlying)
}

// NewBadRequestError creates a BadRequestError.
func NewBadRequestError(message string, underlying error) *AppError {
	return NewAppError(BadRequestError, message, underlying)
}

// NewUnauthorizedError creates an UnauthorizedError.
func NewUnauthorizedError(message string, underlying error) *AppError {
	return NewAppError(UnauthorizedError, message, underlying)
}

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(message string, underlying error) *AppError {
	return NewAppError(ForbiddenError, message, underlying)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(message string, underlying error) *AppError {
	return NewAppError(NotFoundError, message, underlying)
}

// NewTooManyRequestsError creates a TooManyRequestsError.
func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(TooManyRequestsError, message, nil)
}

// NewDatabaseError creates a DatabaseError.
func NewDatabaseError(message string, underlying error) *AppError {
	return NewAppError(DatabaseError, message, underlying)
}

// NewConfigError creates a ConfigError.
func NewConfigError(message string, underlying error) *AppError {
	return NewAppError(ConfigError, message, underlying)
}

// NewInternalError creates an InternalError.
func NewInternalError(message string, underlying error) *AppError {
	return NewAppError(InternalError, message, underlying)
}

// FromError converts a generic error to an *AppError when possible.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}

// IsUnauthorized reports whether err is an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == UnauthorizedError
}

// IsForbidden reports whether err is a ForbiddenError.
func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ForbiddenError
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}
