package core

import (
	"strings"

	"github.com/pkg/errors"
)

// Remote failure taxonomy.
var (
	ErrRemoteFailure = errors.New("remote failure")
	ErrPartialWrite  = errors.New("partial write failure")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	msgs := make([]string, len(err.Fields))
	for i, fe := range err.Fields {
		msgs[i] = fe.Field + ": " + fe.Error
	}
	return "invalid data: " + strings.Join(msgs, ", ")
}

// OpError is returned by entity services when a single-record or write operation fails.
// Kind is the entity sentinel (e.g. assignment.ErrCreationFailed) and Message the description surfaced to callers.
type OpError struct {
	Kind    error
	Message string
	Err     error
}

func NewOpError(kind error, msg string, err error) error {
	return &OpError{Kind: kind, Message: msg, Err: err}
}

func (e *OpError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Kind.Error() + ": " + e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

// Cause lets errors.Cause resolve to the sentinel.
func (e *OpError) Cause() error { return e.Kind }

func (e *OpError) Unwrap() error { return e.Err }

func (e *OpError) Is(target error) bool { return target == e.Kind }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
