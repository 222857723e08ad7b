package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a terminal failure.
type ErrorKind string

// Error kinds, in rough order of where they originate.
const (
	KindNotFound          ErrorKind = "not_found"          // UI locator never matched
	KindSessionError      ErrorKind = "session_error"      // driver/session failure
	KindHTTPError         ErrorKind = "http_error"         // transport failure or non-2xx status
	KindMalformedResponse ErrorKind = "malformed_response" // body shape unexpected
	KindValidationError   ErrorKind = "validation_error"   // parsed value fails domain invariants
	KindCancelled         ErrorKind = "cancelled"          // caller-initiated cancellation
	KindExhausted         ErrorKind = "exhausted"          // attempts/timeout budget consumed
)

// InteractionError represents a classified error with kind and details
type InteractionError struct {
	Kind    ErrorKind
	Code    string                 // Machine-readable code: element_not_found, http_status, etc.
	Message string                 // Human-readable message
	Details map[string]interface{} // Additional context
	Cause   error                  // Underlying error
}

// Error implements the error interface
func (e *InteractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *InteractionError) Unwrap() error {
	return e.Cause
}

// Is matches on kind and code so copies produced by the With* helpers
// still compare equal to their predefined error via errors.Is.
func (e *InteractionError) Is(target error) bool {
	t, ok := target.(*InteractionError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
}

// WithCause returns a copy of the error with the given cause
func (e *InteractionError) WithCause(cause error) *InteractionError {
	return &InteractionError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *InteractionError) WithMessage(msg string) *InteractionError {
	return &InteractionError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: msg,
		Details: e.Details,
		Cause:   e.Cause,
	}
}

// WithDetails returns a copy of the error with additional details
func (e *InteractionError) WithDetails(details map[string]interface{}) *InteractionError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &InteractionError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		Details: merged,
		Cause:   e.Cause,
	}
}

// Predefined errors
var (
	// Locator errors
	ErrElementNotFound = &InteractionError{
		Kind:    KindNotFound,
		Code:    "element_not_found",
		Message: "element not found",
	}
	ErrUnknownTarget = &InteractionError{
		Kind:    KindNotFound,
		Code:    "unknown_target",
		Message: "target not registered",
	}

	// Session errors
	ErrSessionLost = &InteractionError{
		Kind:    KindSessionError,
		Code:    "session_lost",
		Message: "driver session failure",
	}
	ErrNoHandle = &InteractionError{
		Kind:    KindSessionError,
		Code:    "no_handle",
		Message: "no target handle configured for strategy",
	}

	// HTTP errors
	ErrHTTPTransport = &InteractionError{
		Kind:    KindHTTPError,
		Code:    "http_transport",
		Message: "request failed",
	}
	ErrHTTPStatus = &InteractionError{
		Kind:    KindHTTPError,
		Code:    "http_status",
		Message: "unexpected HTTP status",
	}

	// Payload errors
	ErrMalformedResponse = &InteractionError{
		Kind:    KindMalformedResponse,
		Code:    "malformed_response",
		Message: "response body has unexpected shape",
	}
	ErrInvalidValue = &InteractionError{
		Kind:    KindValidationError,
		Code:    "invalid_value",
		Message: "extracted value fails validation",
	}

	// Terminal errors
	ErrCancelled = &InteractionError{
		Kind:    KindCancelled,
		Code:    "cancelled",
		Message: "resolution cancelled",
	}
	ErrExhausted = &InteractionError{
		Kind:    KindExhausted,
		Code:    "exhausted",
		Message: "no strategy succeeded within attempt/timeout budget",
	}
)

// NewInteractionError creates a new InteractionError with the given parameters
func NewInteractionError(kind ErrorKind, code, message string) *InteractionError {
	return &InteractionError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// KindOf returns the ErrorKind of err, or KindSessionError if err carries
// no classification (an unclassified error can only come from the handle).
func KindOf(err error) ErrorKind {
	var ie *InteractionError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindSessionError
}

// AsInteraction converts err to an *InteractionError, wrapping unclassified
// errors as session errors so callers always receive a typed failure.
func AsInteraction(err error) *InteractionError {
	var ie *InteractionError
	if errors.As(err, &ie) {
		return ie
	}
	return ErrSessionLost.WithCause(err)
}
