package core

import (
	"errors"
	"fmt"
)

// Error classes. Use errors.Is against these to decide how a failure is
// reported to clients.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
)

var (
	ErrMissingFields = &ValidationError{Msg: "missing required fields"}
	ErrInvalidDate   = &ValidationError{Field: "data", Msg: "invalid date"}
	ErrInvalidAmount = &ValidationError{Field: "valor", Msg: "amount must be positive"}
)

// ValidationError reports bad or missing input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidField builds a ValidationError for a single field.
func InvalidField(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// StorageError wraps an unexpected persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError wraps err unless it already carries a domain class.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// NotFoundError builds an ErrNotFound for a domain record.
func NotFoundError(d Domain, id int64) error {
	return fmt.Errorf("%s %d: %w", d.Singular(), id, ErrNotFound)
}
