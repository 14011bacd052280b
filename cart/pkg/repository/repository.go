package repository

import (
	"context"

	"github.com/velvetlane/storefront/cart/pkg/store"
)

// SchemaVersion tags persisted carts. A stored document with a different
// version is not migrated, it reads back as an empty cart and the next
// successful write overwrites it.
const SchemaVersion = 1

type document struct {
	Lines   []store.Line `json:"lines"`
	Version int          `json:"version"`
}

// Persistence is the durable home of a session's cart. Implementations must
// treat a missing or corrupt entry as an empty cart, never as an error.
type Persistence interface {
	Load(c context.Context, sessionID string) (store.State, error)
	Save(c context.Context, sessionID string, state store.State) error
	Delete(c context.Context, sessionID string) error
}
