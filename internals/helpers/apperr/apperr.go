// Package apperr holds the error kinds returned by the hostel services.
// Services return these as values; the HTTP layer maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindInvalidState    Kind = "INVALID_STATE"
	KindConflict        Kind = "CONFLICT"
	KindLimitExceeded   Kind = "LIMIT_EXCEEDED"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindAlreadyApproved Kind = "ALREADY_APPROVED"
	KindAlreadyRejected Kind = "ALREADY_REJECTED"
	KindAlreadySettled  Kind = "ALREADY_SETTLED"
	KindValidation      Kind = "VALIDATION"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on kind only, so errors.Is(err, apperr.ErrConflict) works for any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidState    = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrConflict        = &Error{Kind: KindConflict, Message: "conflict"}
	ErrLimitExceeded   = &Error{Kind: KindLimitExceeded, Message: "limit exceeded"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrAlreadyApproved = &Error{Kind: KindAlreadyApproved, Message: "already approved"}
	ErrAlreadyRejected = &Error{Kind: KindAlreadyRejected, Message: "already rejected"}
	ErrAlreadySettled  = &Error{Kind: KindAlreadySettled, Message: "already settled"}
	ErrValidation      = &Error{Kind: KindValidation, Message: "validation failed"}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func InvalidState(msg string) *Error    { return New(KindInvalidState, msg) }
func Conflict(msg string) *Error        { return New(KindConflict, msg) }
func Unauthorized(msg string) *Error    { return New(KindUnauthorized, msg) }
func Validation(msg string) *Error      { return New(KindValidation, msg) }
func AlreadyApproved(msg string) *Error { return New(KindAlreadyApproved, msg) }
func AlreadyRejected(msg string) *Error { return New(KindAlreadyRejected, msg) }
func AlreadySettled(msg string) *Error  { return New(KindAlreadySettled, msg) }

// KindOf returns the kind of the first *Error in err's chain, or "" for
// infrastructure failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsAlreadyTerminal groups the idempotency guards.
func IsAlreadyTerminal(err error) bool {
	switch KindOf(err) {
	case KindAlreadyApproved, KindAlreadyRejected, KindAlreadySettled:
		return true
	}
	return false
}
