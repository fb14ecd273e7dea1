package core

import (
	"errors"
	"fmt"
)

// Catalog build errors. Resolution and pricing never return errors; all of
// these surface from NewCatalog.
var (
	ErrMissingBase          = errors.New("default base document is missing")
	ErrShapeMismatch        = errors.New("field shape does not match base document")
	ErrInvalidValue         = errors.New("unsupported field value")
	ErrUnknownSection       = errors.New("section not defined in base document")
	ErrUnknownField         = errors.New("field not defined in base document")
	ErrUnknownProduct       = errors.New("unknown product")
	ErrUnknownAliasTarget   = errors.New("alias targets an unknown product")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrUnknownLocale        = errors.New("unknown locale")
	ErrConflictingException = errors.New("conflicting exception rules")
	ErrDuplicateProduct     = errors.New("duplicate product key")
	ErrInvalidPrice         = errors.New("invalid price")
)

// ValidationError ties a catalog build failure to the record that caused it.
type ValidationError struct {
	Subject string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Subject, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(subject string, err error) error {
	return &ValidationError{Subject: subject, Err: err}
}
