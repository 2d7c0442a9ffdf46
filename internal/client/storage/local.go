package storage

import (
	"context"
	"fmt"
)

// DefaultApp - префикс ключей локальных снимков по умолчанию
const DefaultApp = "octopus"

//go:generate moq -out localstore_mock.go . LocalStore

// LocalStore defines the durable key/value store holding one serialized
// snapshot per collection on the client.
//
// Implementations must be crash-safe: Set either fully replaces the value or
// leaves the previous one intact.
type LocalStore interface {
	// Get returns the stored bytes for key.
	// Returns nil and no error if nothing was stored under the key yet.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set fully replaces the value stored under key
	Set(ctx context.Context, key string, value []byte) error
}

// SnapshotKey возвращает ключ локального снимка коллекции: "<app>_<collection>_local"
func SnapshotKey(app, collection string) string {
	if app == "" {
		app = DefaultApp
	}
	return fmt.Sprintf("%s_%s_local", app, collection)
}
