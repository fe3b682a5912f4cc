package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrValidation     = errors.New("validation failed")
	ErrLabelNotFound  = errors.New("label not found")
	ErrLabelAmbiguous = errors.New("label is ambiguous")
	ErrPersistence    = errors.New("persistence failure")
)

// ValidationError reports a required field left empty. The submission is
// discarded and nothing is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ResolutionError reports a display label that did not map to exactly one
// lookup row.
type ResolutionError struct {
	Kind    LookupKind
	Label   string
	Matches int
}

func (e *ResolutionError) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("%s %q does not exist", e.Kind, e.Label)
	}
	return fmt.Sprintf("%s %q matches %d rows", e.Kind, e.Label, e.Matches)
}

func (e *ResolutionError) Unwrap() error {
	if e.Matches == 0 {
		return ErrLabelNotFound
	}
	return ErrLabelAmbiguous
}

// PersistenceError wraps a store failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Reason classifies an error returned by the Service for logs, metrics and
// audit records.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrLabelAmbiguous):
		return "ambiguous_label"
	case errors.Is(err, ErrLabelNotFound):
		return "unknown_label"
	case errors.Is(err, ErrBookNotFound):
		return "not_found"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	}
	return "unknown"
}
