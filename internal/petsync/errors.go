package petsync

import (
	"errors"
	"fmt"
)

var (
	ErrFetchFailure    = errors.New("fetch failure")
	ErrWriteFailure    = errors.New("write failure")
	ErrIncompleteDraft = errors.New("incomplete draft")
	ErrAlreadyLoaded   = errors.New("already loaded")
)

type FailureKind string

const (
	FailureFetch FailureKind = "fetch"
	FailureWrite FailureKind = "write"
)

// Failure es lo que se publica por Controller.Failures().
type Failure struct {
	Kind    FailureKind
	Op      string // listPets, listBreeds, createPet
	LocalID string // solo en writes
	Err     error
}

func (f Failure) Error() string {
	if f.LocalID != "" {
		return fmt.Sprintf("%s %s (local_id=%s): %v", f.Kind, f.Op, f.LocalID, f.Err)
	}
	return fmt.Sprintf("%s %s: %v", f.Kind, f.Op, f.Err)
}

func (f Failure) Unwrap() []error {
	switch f.Kind {
	case FailureFetch:
		return []error{ErrFetchFailure, f.Err}
	case FailureWrite:
		return []error{ErrWriteFailure, f.Err}
	default:
		return []error{f.Err}
	}
}
