// Package domainerrors defines the coded error taxonomy shared between the
// claims services and the HTTP transport. Services return coded errors;
// the transport layer translates codes to HTTP status without inspecting
// error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure for transport translation and logging.
type Code string

const (
	// CodeBadRequest covers invalid input, including missing required
	// submission fields.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound covers lookups for ids the store does not know.
	CodeNotFound Code = "not_found"
	// CodeConflict covers writes rejected because an equivalent record
	// already exists (e.g. a document that was already digitized).
	CodeConflict Code = "conflict"
	// CodeUnavailable covers transport failures reaching the claims store.
	// The previous snapshot is retained when this is returned.
	CodeUnavailable Code = "unavailable"
	// CodeInternal is the fallback for unexpected failures.
	CodeInternal Code = "internal"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the HTTP status the transport should emit.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
