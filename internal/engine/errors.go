package engine

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure. Every kind is recoverable at the API
// boundary and maps onto a structured HTTP response.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindInvalidTransition Kind = "invalid_transition"
	KindInvalidInput      Kind = "invalid_input"
	KindConflictRetry     Kind = "conflict_retry"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) *Error { return errf(KindNotFound, format, args...) }
func forbiddenf(format string, args ...any) *Error {
	return errf(KindForbidden, format, args...)
}
func invalidTransitionf(format string, args ...any) *Error {
	return errf(KindInvalidTransition, format, args...)
}
func invalidInputf(format string, args ...any) *Error {
	return errf(KindInvalidInput, format, args...)
}

// KindOf extracts the failure kind, or "" for unexpected errors (persistence
// outages and the like).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
