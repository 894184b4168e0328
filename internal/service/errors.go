package service

import "fmt"

// Stable error codes surfaced to transport clients.
const (
	CodeComponentNotFound = "COMPONENT_NOT_FOUND"
	CodeEmptyResolution   = "EMPTY_RESOLUTION"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeInternal          = "INTERNAL"
)

// Error is a structured service error with a stable code and optional
// fuzzy-search suggestions. Transports serialize it as a payload rather
// than failing the protocol call.
type Error struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	cause       error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// NotFoundError builds a COMPONENT_NOT_FOUND error with suggestions.
func NotFoundError(name string, suggestions []string) *Error {
	return &Error{
		Code:        CodeComponentNotFound,
		Message:     fmt.Sprintf("component not found: %s", name),
		Suggestions: suggestions,
	}
}

// EmptyResolutionErr builds the hard failure for a request where nothing
// resolved.
func EmptyResolutionErr(message string, suggestions []string) *Error {
	return &Error{
		Code:        CodeEmptyResolution,
		Message:     message,
		Suggestions: suggestions,
	}
}

// InvalidArgument builds an INVALID_ARGUMENT error.
func InvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

// Internal wraps an unexpected failure.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", cause: err}
}
