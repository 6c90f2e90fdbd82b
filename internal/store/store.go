// Package store defines the persistence interface for collection documents
// and the error taxonomy shared by its implementations.
package store

import (
	"context"
	"encoding/json"

	"github.com/alderbrook/civicd/internal/model"
)

// Stage is one collection's pending list payload in a multi-collection
// commit. All stages are prepared before any document is replaced, so a
// failure in either stage leaves every document in its prior state.
type Stage struct {
	Type model.CollectionType
	List []model.Record
}

// Store is the document store. Each collection is one whole document;
// loads and saves are O(collection size) by design.
type Store interface {
	// LoadList returns the records of a plain-list or config-wrapped
	// collection. A missing document yields an empty list. For
	// config-wrapped types only the list portion is returned; callers
	// needing the config must call LoadConfig explicitly.
	LoadList(ctx context.Context, typ model.CollectionType) ([]model.Record, error)

	// LoadConfig returns the opaque config object of a config-wrapped
	// collection, falling back to the registered default when the document
	// is missing or carries none.
	LoadConfig(ctx context.Context, typ model.CollectionType) (json.RawMessage, error)

	// LoadSections returns the full section map of a keyed-section
	// collection. A missing document yields an empty map.
	LoadSections(ctx context.Context, typ model.CollectionType) (map[string]map[string]any, error)

	// SaveList replaces the list of a plain-list or config-wrapped
	// collection. For config-wrapped types the previously stored config is
	// re-read and reattached verbatim; it is never regenerated.
	SaveList(ctx context.Context, typ model.CollectionType, list []model.Record) error

	// SaveSection replaces exactly one section of a keyed-section
	// collection; all sibling sections persist unchanged.
	SaveSection(ctx context.Context, typ model.CollectionType, section string, data map[string]any) error

	// Commit persists several list collections in one staged write: every
	// stage is written to a temporary file before any live document is
	// replaced.
	Commit(ctx context.Context, stages ...Stage) error

	// Lock serializes writers for the given collections. It returns the
	// unlock function. Callers hold the lock across the whole
	// read-modify-write cycle of a mutation.
	Lock(types ...model.CollectionType) (unlock func())

	Close() error
}
