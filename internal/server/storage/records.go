package storage

import (
	"context"

	"github.com/iudanet/octosync/internal/models"
)

// RecordStorage defines interface for authoritative collection records persistence
type RecordStorage interface {
	// SelectAll returns every record of the collection ordered by created_at DESC.
	// Returns empty snapshot if collection has no records.
	SelectAll(ctx context.Context, collection string) (models.Snapshot, error)

	// SelectByID returns a single record.
	// Returns ErrRecordNotFound if record doesn't exist.
	SelectByID(ctx context.Context, collection, id string) (models.Entity, error)

	// Insert stores a new record. Existing record with the same id is left untouched,
	// the returned flag reports whether the record was created.
	Insert(ctx context.Context, collection string, entity models.Entity) (bool, error)

	// Upsert inserts or replaces records by id in a single transaction
	Upsert(ctx context.Context, collection string, entities models.Snapshot) (int, error)

	// Delete removes a record.
	// Returns ErrRecordNotFound if record doesn't exist.
	Delete(ctx context.Context, collection, id string) error

	// Ping checks that database is reachable
	Ping(ctx context.Context) error
}
