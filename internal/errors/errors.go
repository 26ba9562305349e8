// Package errors provides standardized domain errors with codes for the SignBridge API.
//
// Usage:
//
//	// In services - return typed errors
//	if len(paths) == 0 {
//	    return errors.InvalidInput("no media paths provided")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrInvalidInput) {
//	    return huma.Error400BadRequest(err.Error())
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeValidation         Code = "VALIDATION"
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeCatalogUnavailable Code = "CATALOG_UNAVAILABLE"
	CodeNoMatches          Code = "NO_MATCHES"
	CodeMediaProcessing    Code = "MEDIA_PROCESSING"
	CodeSemanticService    Code = "SEMANTIC_SERVICE"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
//
// NoMatches, MediaProcessing, and SemanticService never reach the HTTP
// layer in normal operation - the orchestrator downgrades them to
// fallback-mode results. The mappings exist so that a bug which lets one
// escape still produces a sane response.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeCatalogUnavailable:
		return http.StatusServiceUnavailable
	case CodeNoMatches:
		return http.StatusOK
	case CodeMediaProcessing, CodeSemanticService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInvalidInput       = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrCatalogUnavailable = &Error{Code: CodeCatalogUnavailable, Message: "catalog unavailable"}
	ErrNoMatches          = &Error{Code: CodeNoMatches, Message: "no matches"}
	ErrMediaProcessing    = &Error{Code: CodeMediaProcessing, Message: "media processing failed"}
	ErrSemanticService    = &Error{Code: CodeSemanticService, Message: "semantic service error"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// InvalidInput creates an invalid input error.
func InvalidInput(msg string) *Error {
	return &Error{Code: CodeInvalidInput, Message: msg}
}

// InvalidInputf creates an invalid input error with formatted message.
func InvalidInputf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// CatalogUnavailable creates a catalog unavailable error.
func CatalogUnavailable(msg string) *Error {
	return &Error{Code: CodeCatalogUnavailable, Message: msg}
}

// NoMatches creates a no matches error.
func NoMatches(msg string) *Error {
	return &Error{Code: CodeNoMatches, Message: msg}
}

// MediaProcessing creates a media processing error.
func MediaProcessing(msg string) *Error {
	return &Error{Code: CodeMediaProcessing, Message: msg}
}

// MediaProcessingf creates a media processing error with formatted message.
func MediaProcessingf(format string, args ...any) *Error {
	return &Error{Code: CodeMediaProcessing, Message: fmt.Sprintf(format, args...)}
}

// SemanticService creates a semantic service error.
func SemanticService(msg string) *Error {
	return &Error{Code: CodeSemanticService, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
