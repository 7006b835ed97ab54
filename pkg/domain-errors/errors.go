// Package domainerrors provides coded errors shared across all univote modules.
//
// Services return these instead of raw errors so transport layers can map
// failures to specific HTTP statuses and user-facing messages without string
// matching. Codes classify the failure; Details carry structured context such
// as missing ballot positions or an ineligibility reason.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks malformed or incomplete input (e.g. a ballot
	// missing selections for contested positions).
	CodeValidation Code = "validation"

	// CodeInvalidInput marks input rejected at a parse/trust boundary.
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks a structurally invalid request.
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"

	// CodeConflict marks a uniqueness or concurrency conflict (already voted,
	// duplicate concurrent submission).
	CodeConflict Code = "conflict"

	// CodeStateConflict marks an operation against an entity whose current
	// state forbids it (e.g. resetting votes on a non-active election).
	CodeStateConflict Code = "state_conflict"

	// CodeUnauthorized marks a missing or unverified identity.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden marks an authenticated caller without the required
	// capability or eligibility.
	CodeForbidden Code = "forbidden"

	// CodeUnavailable marks a transient storage or downstream failure that the
	// caller may retry.
	CodeUnavailable Code = "unavailable"

	// CodeTimeout marks an operation cancelled by deadline.
	CodeTimeout Code = "timeout"

	// CodeInternal marks an unexpected failure.
	CodeInternal Code = "internal"
)

// Error is a coded error with optional structured details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithDetail attaches a structured detail and returns the same error for
// chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error wrapping an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal for uncoded
// errors.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// DetailsOf extracts structured details from err, or nil.
func DetailsOf(err error) map[string]any {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// ToHTTPStatus maps a code to the HTTP status the transport layer should emit.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeStateConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
