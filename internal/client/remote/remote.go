// Package remote defines the contract between the synchronization engine and
// the authoritative record store, together with the error taxonomy used to
// decide which failures are worth retrying.
package remote

import (
	"context"

	"github.com/iudanet/octosync/internal/models"
)

// ConflictKey is the only conflict key supported by Upsert
const ConflictKey = models.FieldID

//go:generate moq -out client_mock.go . Client

// Client is a thin CRUD contract over the remote record store.
// Every method is keyed by collection so one client serves all collections.
type Client interface {
	// SelectAll returns every record of the collection ordered by created_at DESC
	SelectAll(ctx context.Context, collection string) (models.Snapshot, error)

	// SelectByID returns a single record.
	// Returns an error wrapping ErrNotFound if the record does not exist.
	SelectByID(ctx context.Context, collection, id string) (models.Entity, error)

	// Insert stores a new record. Inserting an id that already exists is not
	// an error and leaves the stored record untouched, so retries are safe.
	Insert(ctx context.Context, collection string, entity models.Entity) error

	// Upsert inserts or replaces records keyed by id. Idempotent.
	Upsert(ctx context.Context, collection string, entities models.Snapshot) error

	// Delete removes a record by id. Deleting a missing record is not an error.
	Delete(ctx context.Context, collection, id string) error
}
