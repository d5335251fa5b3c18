package validate

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the entity model and the document adapter.
var (
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrEmptyRequired     = errors.New("required value is empty")
	ErrDuplicateName     = errors.New("duplicate name")
	ErrMalformedDocument = errors.New("malformed document")
)

// FieldError reports a rejected field edit.
type FieldError struct {
	Key   string
	Input string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v (input %q)", e.Key, e.Err, e.Input)
}

func (e *FieldError) Unwrap() error { return e.Err }

// DocumentError reports a ship document that could not be loaded.
type DocumentError struct {
	Name   string
	Reason string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("ship %s: %v: %s", e.Name, ErrMalformedDocument, e.Reason)
}

func (e *DocumentError) Unwrap() error { return ErrMalformedDocument }
