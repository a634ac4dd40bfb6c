// Package apierr defines the closed set of failures the service reports to
// HTTP clients, each with a fixed status code and message.
package apierr

import (
	"errors"
	"net/http"
)

// Kind is the failure kind. The set is closed: Status and Message switch over
// every value, so a new kind has to be added to both.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnauthorized
	KindTokenExpired
	KindTokenInvalid
)

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindInternal:
		return http.StatusInternalServerError
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized, KindTokenExpired, KindTokenInvalid:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message for k.
func (k Kind) Message() string {
	switch k {
	case KindInternal:
		return "Internal Server Error"
	case KindNotFound:
		return "Not Found"
	case KindUnauthorized:
		return "Unauthorized"
	case KindTokenExpired:
		return "Token expired"
	case KindTokenInvalid:
		return "Invalid token"
	}
	return "Internal Server Error"
}

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindTokenExpired:
		return "token_expired"
	case KindTokenInvalid:
		return "token_invalid"
	}
	return "unknown"
}

// Error is a taxonomy failure. Cause is kept for logging only and never
// reaches the client.
type Error struct {
	Cause error
	Kind  Kind
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Kind.String() + ": " + e.Cause.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, apierr.NotFound)
// works regardless of the cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel values for errors.Is comparisons.
var (
	Internal     = &Error{Kind: KindInternal}
	NotFound     = &Error{Kind: KindNotFound}
	Unauthorized = &Error{Kind: KindUnauthorized}
	TokenExpired = &Error{Kind: KindTokenExpired}
	TokenInvalid = &Error{Kind: KindTokenInvalid}
)

// Wrap attaches cause to a new error of kind k.
func Wrap(k Kind, cause error) *Error {
	return &Error{Kind: k, Cause: cause}
}

// StatusCoder is implemented by failures that carry their own HTTP status,
// e.g. request decoding errors. Write renders them unchanged.
type StatusCoder interface {
	error
	StatusCode() int
}

// StatusError is a transport-level failure outside the taxonomy: a missing
// header, an undecodable body, a conflicting email.
type StatusError struct {
	Msg    string
	Status int
}

// NewStatusError creates a StatusError.
func NewStatusError(status int, msg string) *StatusError {
	return &StatusError{Status: status, Msg: msg}
}

func (e *StatusError) Error() string {
	return e.Msg
}

// StatusCode implements StatusCoder.
func (e *StatusError) StatusCode() int {
	return e.Status
}

// Write renders err. Taxonomy errors get their fixed status and message;
// a StatusCoder is passed through with its own status and text; anything
// else is reported as an internal error.
func Write(w http.ResponseWriter, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		writeText(w, apiErr.Kind.Status(), apiErr.Kind.Message())
		return
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		writeText(w, sc.StatusCode(), sc.Error())
		return
	}

	writeText(w, KindInternal.Status(), KindInternal.Message())
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
