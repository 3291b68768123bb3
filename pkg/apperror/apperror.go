// Package apperror defines the error kinds surfaced by the account core.
// Every error carries a status code, a message and an (empty) details slice
// so the transport layer can render it without further inspection.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error. Kinds are comparable sentinels usable with errors.Is.
type Kind struct {
	name   string
	status int
}

func (k *Kind) Error() string { return k.name }

// Status returns the HTTP status code associated with the kind.
func (k *Kind) Status() int { return k.status }

var (
	KindBadRequest   = &Kind{name: "bad request", status: http.StatusBadRequest}
	KindUnauthorized = &Kind{name: "unauthorized", status: http.StatusUnauthorized}
	KindNotFound     = &Kind{name: "not found", status: http.StatusNotFound}
	KindConflict     = &Kind{name: "conflict", status: http.StatusConflict}
	KindInternal     = &Kind{name: "internal", status: http.StatusInternalServerError}
)

// Error is the concrete error returned by the application layer.
type Error struct {
	Kind    *Kind
	Message string
	Errors  []any
	Err     error // underlying cause, never rendered
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Status returns the HTTP status code of the error kind.
func (e *Error) Status() int { return e.Kind.status }

func newError(k *Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Message: msg, Errors: []any{}, Err: cause}
}

func BadRequest(msg string) *Error   { return newError(KindBadRequest, msg, nil) }
func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg, nil) }
func NotFound(msg string) *Error     { return newError(KindNotFound, msg, nil) }
func Conflict(msg string) *Error     { return newError(KindConflict, msg, nil) }
func Internal(msg string) *Error     { return newError(KindInternal, msg, nil) }

// Wrap builds an error of kind k that keeps cause for logging and errors.Is.
func Wrap(k *Kind, msg string, cause error) *Error { return newError(k, msg, cause) }

// From converts any error into an *Error. Unknown errors become Internal
// with a generic message so their text is never surfaced.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(KindInternal, "internal server error", err)
}

// Is reports whether err is of kind k.
func Is(err error, k *Kind) bool { return errors.Is(err, k) }
