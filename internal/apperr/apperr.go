// Package apperr defines the error kinds that travel from the pipeline up to
// the HTTP boundary.
//
//	Validation – bad caller input (wrong image count, missing author). 4xx, never retried.
//	NotFound   – a referenced image or document does not exist.
//	Conflict   – a document with the same id is already stored.
//	Model      – the classification runtime failed.
//	Store      – the document store failed.
//
// Message is safe to show to clients; the wrapped Err is for logs only.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindModel
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindModel:
		return "model"
	case KindStore:
		return "store"
	default:
		return "internal"
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validationf creates a formatted validation error.
func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound wraps err as a not-found error with a client-safe message.
func NotFound(msg string, err error) error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

// Conflict wraps err as a conflict error.
func Conflict(msg string, err error) error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

// Model wraps an inference failure.
func Model(msg string, err error) error {
	return &Error{Kind: KindModel, Message: msg, Err: err}
}

// Store wraps a persistence failure.
func Store(msg string, err error) error {
	return &Error{Kind: KindStore, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the client-safe message of err, or a generic text for
// errors that were never classified.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
