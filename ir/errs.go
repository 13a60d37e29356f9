package ir

import (
	"errors"
	"fmt"
)

var (
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrUnserializable = errors.New("value cannot be serialized")
	ErrExtTypeExists  = errors.New("extension type exists")
	ErrBadPath        = errors.New("bad path")
)

// CoercionError reports a failed conversion between value kinds.
type CoercionError struct {
	From, To Kind
	Err      error
}

func (e *CoercionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot convert %s to %s: %v", e.From, e.To, e.Err)
	}
	return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
}

func (e *CoercionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTypeMismatch}
	}
	return []error{ErrTypeMismatch, e.Err}
}

func mismatch(from, to Kind, err error) error {
	return &CoercionError{From: from, To: to, Err: err}
}
