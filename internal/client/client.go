// Package client provides a transport-agnostic interface for the civicd
// admin API and an HTTP/JSON implementation that talks to it.
package client

import (
	"context"
	"encoding/json"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/alderbrook/civicd/internal/reconcile"
)

// AdminClient is the interface all civicd CLI commands use to communicate
// with the server. It is implemented by HTTPClient (default) and can be
// backed by any transport.
type AdminClient interface {
	// Record CRUD
	Create(ctx context.Context, typ model.CollectionType, fields json.RawMessage) (json.RawMessage, error)
	Get(ctx context.Context, typ model.CollectionType, id string) (json.RawMessage, error)
	List(ctx context.Context, typ model.CollectionType) (json.RawMessage, error)
	Update(ctx context.Context, typ model.CollectionType, id string, fields json.RawMessage) (json.RawMessage, error)
	PartialUpdate(ctx context.Context, typ model.CollectionType, id string, patch map[string]any) (json.RawMessage, error)
	Delete(ctx context.Context, typ model.CollectionType, id string) error

	// Keyed sections
	Section(ctx context.Context, typ model.CollectionType, name string) (map[string]any, error)
	SaveSection(ctx context.Context, typ model.CollectionType, name string, data map[string]any) error

	// Identity view
	Identities(ctx context.Context) ([]reconcile.MergedView, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}
