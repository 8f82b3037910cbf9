package userstore

import (
	"errors"
	"fmt"
)

// Kind classifies store failures so callers can decide whether the next
// strategy in the fallback chain should be attempted.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindUnavailable
	KindPermissionDenied
	KindNotFound
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnavailable:
		return "unavailable"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

// Error is the typed failure returned by every store implementation.
// Store names the path that produced the failure ("admin", "direct", "api").
type Error struct {
	Kind    Kind
	Store   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s store: %s", e.Store, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s store: %v", e.Store, e.Err)
	}
	return fmt.Sprintf("%s store: %s", e.Store, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a typed store error.
func E(kind Kind, store, message string, err error) *Error {
	return &Error{Kind: kind, Store: store, Message: message, Err: err}
}

// KindOf extracts the Kind from an error chain. Errors that do not carry a
// *Error anywhere in the chain report KindUnknown.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// Retryable reports whether the failure should trigger the next strategy in
// the fallback chain. Only InvalidArgument is terminal: the same input would
// be rejected by every path.
func Retryable(err error) bool {
	return KindOf(err) != KindInvalidArgument
}
