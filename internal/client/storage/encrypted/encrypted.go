// Package encrypted wraps a storage.LocalStore so that snapshot bytes are
// encrypted at rest with AES-256-GCM.
//
// The key is derived from a user passphrase and a per-database salt kept in
// client metadata. The snapshot key is bound as additional authenticated data,
// so a ciphertext moved to another key fails to decrypt.
package encrypted

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/octosync/internal/client/storage"
	"github.com/iudanet/octosync/internal/crypto"
	"github.com/iudanet/octosync/internal/validation"
)

var _ storage.LocalStore = (*Store)(nil)

// ErrWrongPassphrase возвращается, если ключ из парольной фразы не совпадает с ключом базы
var ErrWrongPassphrase = errors.New("wrong passphrase for this database")

var (
	checkPlaintext = []byte("octosync snapshot key")
	checkAAD       = []byte("key_check")
)

// Store шифрует значения перед записью во вложенное хранилище
type Store struct {
	inner storage.LocalStore
	key   []byte
}

// New creates an encrypting store with a ready 32-byte key
func New(inner storage.LocalStore, key []byte) (*Store, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner store cannot be nil")
	}
	if len(key) != crypto.KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", crypto.KeySize, len(key))
	}

	k := make([]byte, len(key))
	copy(k, key)

	return &Store{inner: inner, key: k}, nil
}

// Open derives the snapshot key from passphrase and the salt stored in meta.
// On first use a new salt and a key check sealed with the derived key are
// saved. Later opens must decrypt that check, otherwise ErrWrongPassphrase
// is returned and no snapshot is touched.
func Open(ctx context.Context, inner storage.LocalStore, meta storage.MetadataStorage, passphrase string) (*Store, error) {
	if err := validation.ValidatePassphrase(passphrase); err != nil {
		return nil, err
	}

	salt, err := meta.GetSalt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load salt: %w", err)
	}

	if salt == nil {
		salt, err = crypto.GenerateSalt()
		if err != nil {
			return nil, err
		}
		if err := meta.SaveSalt(ctx, salt); err != nil {
			return nil, fmt.Errorf("failed to save salt: %w", err)
		}
	}

	key, err := crypto.DeriveSnapshotKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive snapshot key: %w", err)
	}

	if err := verifyKey(ctx, meta, key); err != nil {
		return nil, err
	}

	return New(inner, key)
}

// verifyKey сверяет ключ с сохраненной проверкой или сохраняет ее при первом открытии
func verifyKey(ctx context.Context, meta storage.MetadataStorage, key []byte) error {
	check, err := meta.GetKeyCheck(ctx)
	if err != nil {
		return fmt.Errorf("failed to load key check: %w", err)
	}

	if check == nil {
		sealed, err := crypto.Seal(checkPlaintext, key, checkAAD)
		if err != nil {
			return fmt.Errorf("failed to seal key check: %w", err)
		}
		if err := meta.SaveKeyCheck(ctx, sealed); err != nil {
			return fmt.Errorf("failed to save key check: %w", err)
		}
		return nil
	}

	plaintext, err := crypto.Open(check, key, checkAAD)
	if err != nil || !bytes.Equal(plaintext, checkPlaintext) {
		return ErrWrongPassphrase
	}

	return nil
}

// Get reads and decrypts the value stored under key.
// Missing or empty values are returned unchanged.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(sealed) == 0 {
		return sealed, nil
	}

	plaintext, err := crypto.Open(sealed, s.key, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt snapshot %q: %w", key, err)
	}

	return plaintext, nil
}

// Set encrypts value and stores it under key
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := crypto.Seal(value, s.key, []byte(key))
	if err != nil {
		return fmt.Errorf("failed to encrypt snapshot %q: %w", key, err)
	}

	return s.inner.Set(ctx, key, sealed)
}
