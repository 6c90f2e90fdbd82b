package store

import (
	"errors"
	"fmt"

	"github.com/alderbrook/civicd/internal/model"
)

// ErrUnknownCollection is returned when a collection type is not registered.
// It is reported before any I/O happens.
var ErrUnknownCollection = errors.New("unknown collection type")

// NotFoundError reports a record ID that does not exist in its collection.
type NotFoundError struct {
	Type model.CollectionType
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no record with id %q", e.Type, e.ID)
}

// ConflictError reports a uniqueness violation, e.g. a duplicate case-folded
// email on create.
type ConflictError struct {
	Type  model.CollectionType
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s %q already exists", e.Type, e.Field, e.Value)
}

// PersistenceError reports an I/O failure while reading or writing a
// document. The on-disk document remains in its prior state.
type PersistenceError struct {
	Op   string
	Type model.CollectionType
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Type, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
