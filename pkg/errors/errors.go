package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport: the HTTP layer maps it to a
// status and a safe public message without inspecting the cause chain.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

func meta(status int, msg string, retryable, detailsAllowed bool) Metadata {
	return Metadata{
		HTTPStatus:     status,
		Retryable:      retryable,
		PublicMessage:  msg,
		DetailsAllowed: detailsAllowed,
	}
}

// DetailsAllowed is true only for codes whose details are written by
// the service layer for the client (validation fields, transition
// hints); everything else stays in logs.
var metadataByCode = map[Code]Metadata{
	CodeValidation:    meta(http.StatusBadRequest, "validation failed", false, true),
	CodeUnauthorized:  meta(http.StatusUnauthorized, "authentication required", false, false),
	CodeForbidden:     meta(http.StatusForbidden, "access denied", false, false),
	CodeNotFound:      meta(http.StatusNotFound, "resource not found", false, false),
	CodeConflict:      meta(http.StatusConflict, "conflict detected", false, false),
	CodeStateConflict: meta(http.StatusUnprocessableEntity, "state transition disallowed", false, true),
	CodeRateLimit:     meta(http.StatusTooManyRequests, "rate limit exceeded", false, false),
	CodeInternal:      meta(http.StatusInternalServerError, "internal server error", true, false),
	CodeDependency:    meta(http.StatusServiceUnavailable, "dependency unavailable", true, true),
}

// MetadataFor falls back to the internal-error metadata for unknown
// codes so an unmapped code never leaks a 200.
func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed error carried across layer boundaries. message is
// operator-facing; only details (when the code allows) reach clients.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the typed error from anywhere in the chain, nil when
// none is present.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
