package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDatasetNotFound signals an unknown dataset name.
	ErrDatasetNotFound = fmt.Errorf("dataset %w", ErrNotFound)
	// ErrInvalidQuery signals a malformed filter, sort or search parameter.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrDatasetUnavailable signals that a dataset's records could not be resolved.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrInvalidDataset signals a malformed dataset payload or definition.
	ErrInvalidDataset = errors.New("invalid dataset")
)

// InvalidQueryError wraps ErrInvalidQuery with the offending parameter.
type InvalidQueryError struct {
	Param string
	Err   error
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvalidQuery.Error(), e.Param, e.Err)
}

// Is matches ErrInvalidQuery.
func (e *InvalidQueryError) Is(target error) bool { return target == ErrInvalidQuery }

func (e *InvalidQueryError) Unwrap() error { return e.Err }

// NewInvalidQuery creates an invalid query error for param.
func NewInvalidQuery(param string, err error) error {
	return &InvalidQueryError{Param: param, Err: err}
}
