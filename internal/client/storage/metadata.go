package storage

import (
	"context"
	"time"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastReconcile saves the time of the last successful force sync of a collection
	SaveLastReconcile(ctx context.Context, collection string, at time.Time) error

	// GetLastReconcile retrieves the time of the last successful force sync.
	// Returns zero time if the collection has never been reconciled.
	GetLastReconcile(ctx context.Context, collection string) (time.Time, error)

	// SaveSalt stores the salt used to derive the snapshot encryption key
	SaveSalt(ctx context.Context, salt []byte) error

	// GetSalt returns the stored salt or nil if none was saved yet
	GetSalt(ctx context.Context) ([]byte, error)

	// SaveKeyCheck stores a value sealed with the snapshot key, used to verify the passphrase
	SaveKeyCheck(ctx context.Context, check []byte) error

	// GetKeyCheck returns the stored key check or nil if none was saved yet
	GetKeyCheck(ctx context.Context) ([]byte, error)
}
