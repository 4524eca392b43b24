package entity

import (
	"errors"
	"fmt"
)

// Domain errors for word entries, lists and their persistence.
var (
	ErrValidation          = errors.New("validation failed")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrIO                  = errors.New("i/o failure")
	ErrFormat              = errors.New("unrecognized wordlist format")
	ErrUnknownWordClass    = errors.New("unknown word class")
	ErrWordlistNotFound    = fmt.Errorf("wordlist not found: %w", ErrIO)
	ErrOperationInProgress = errors.New("another save or load is in progress")
)

// ValidationError reports a user-correctable problem with input values.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IndexError reports an index outside 0..Count-1. Correct callers never
// trigger it.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Count)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// PersistenceError wraps a save/load failure. Kind is ErrIO or ErrFormat.
type PersistenceError struct {
	Op       string
	Location string
	Kind     error
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Location, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Location, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewIOError builds a PersistenceError of kind ErrIO.
func NewIOError(op, location string, err error) error {
	return &PersistenceError{Op: op, Location: location, Kind: ErrIO, Err: err}
}

// NewFormatError builds a PersistenceError of kind ErrFormat.
func NewFormatError(op, location string, err error) error {
	return &PersistenceError{Op: op, Location: location, Kind: ErrFormat, Err: err}
}
