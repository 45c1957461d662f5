// Package apperr defines the error taxonomy surfaced to API callers.
// Services return these sentinels (usually wrapped with a caller-facing
// message); the HTTP error handler maps them onto status codes and the
// {success, message} envelope.
package apperr

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrPolicyViolation = errors.New("policy violation")
	// ErrConflict signals a concurrent-write race on the same vote pair.
	// Safe for the caller to retry.
	ErrConflict = errors.New("conflict")
)

// Error pairs a taxonomy sentinel with a caller-facing message.
type Error struct {
	base error
	msg  string
}

func New(base error, msg string) *Error {
	return &Error{base: base, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.base }
