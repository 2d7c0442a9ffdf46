package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	keyReconcilePrefix = "last_reconcile:"
	keySalt            = "snapshot_salt"
	keyCheck           = "snapshot_key_check"
)

// SaveLastReconcile saves the time of the last successful force sync of a collection
func (s *Storage) SaveLastReconcile(ctx context.Context, collection string, at time.Time) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Храним время как unix nano в big endian
		tsBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(tsBytes, uint64(at.UnixNano()))

		if err := bucket.Put([]byte(keyReconcilePrefix+collection), tsBytes); err != nil {
			return fmt.Errorf("failed to save last reconcile time: %w", err)
		}

		return nil
	})
}

// GetLastReconcile retrieves the time of the last successful force sync.
// Returns zero time if the collection has never been reconciled.
func (s *Storage) GetLastReconcile(ctx context.Context, collection string) (time.Time, error) {
	var at time.Time

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		tsBytes := bucket.Get([]byte(keyReconcilePrefix + collection))
		if len(tsBytes) != 8 {
			// Коллекция еще ни разу не синхронизировалась
			return nil
		}

		at = time.Unix(0, int64(binary.BigEndian.Uint64(tsBytes))).UTC()
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last reconcile time: %w", err)
	}

	return at, nil
}

// SaveSalt stores the salt used to derive the snapshot encryption key
func (s *Storage) SaveSalt(ctx context.Context, salt []byte) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		if err := bucket.Put([]byte(keySalt), salt); err != nil {
			return fmt.Errorf("failed to save salt: %w", err)
		}
		return nil
	})
}

// GetSalt returns the stored salt or nil if none was saved yet
func (s *Storage) GetSalt(ctx context.Context) ([]byte, error) {
	var salt []byte

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		if data := bucket.Get([]byte(keySalt)); data != nil {
			salt = make([]byte, len(data))
			copy(salt, data)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get salt: %w", err)
	}

	return salt, nil
}

// SaveKeyCheck stores the sealed passphrase verifier
func (s *Storage) SaveKeyCheck(ctx context.Context, check []byte) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		if err := bucket.Put([]byte(keyCheck), check); err != nil {
			return fmt.Errorf("failed to save key check: %w", err)
		}
		return nil
	})
}

// GetKeyCheck returns the sealed passphrase verifier or nil if none was saved yet
func (s *Storage) GetKeyCheck(ctx context.Context) ([]byte, error) {
	var check []byte

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		if data := bucket.Get([]byte(keyCheck)); data != nil {
			check = make([]byte, len(data))
			copy(check, data)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get key check: %w", err)
	}

	return check, nil
}
