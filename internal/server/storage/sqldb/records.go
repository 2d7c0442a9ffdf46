package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/octosync/internal/models"
	"github.com/iudanet/octosync/internal/server/storage"
)

const (
	selectAllQuery  = `SELECT data FROM records WHERE collection = ? ORDER BY created_at DESC, id ASC`
	selectByIDQuery = `SELECT data FROM records WHERE collection = ? AND id = ?`
	insertQuery     = `INSERT INTO records (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO NOTHING`
	upsertQuery = `INSERT INTO records (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
	deleteQuery = `DELETE FROM records WHERE collection = ? AND id = ?`
)

// SelectAll returns every record of the collection, newest created_at first
func (s *Storage) SelectAll(ctx context.Context, collection string) (models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(selectAllQuery), collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	snapshot := make(models.Snapshot, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		entity, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		snapshot = append(snapshot, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return snapshot, nil
}

// SelectByID returns a single record or storage.ErrRecordNotFound
func (s *Storage) SelectByID(ctx context.Context, collection, id string) (models.Entity, error) {
	var data string
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(selectByIDQuery), collection, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return decodeRecord(data)
}

// Insert stores a new record. Повторная вставка того же id ничего не меняет.
func (s *Storage) Insert(ctx context.Context, collection string, entity models.Entity) (bool, error) {
	args, err := s.recordArgs(collection, entity)
	if err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, s.dialect.rebind(insertQuery), args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// Upsert inserts or replaces records in a single transaction.
// created_at существующей записи сохраняется.
func (s *Storage) Upsert(ctx context.Context, collection string, entities models.Snapshot) (int, error) {
	// Сериализуем все записи до открытия транзакции
	batch := make([][]any, 0, len(entities))
	for _, e := range entities {
		args, err := s.recordArgs(collection, e)
		if err != nil {
			return 0, err
		}
		batch = append(batch, args)
	}

	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := s.dialect.rebind(upsertQuery)
	for _, args := range batch {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("failed to upsert record %v: %w", args[1], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(batch), nil
}

// Delete removes a record or returns storage.ErrRecordNotFound
func (s *Storage) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.ExecContext(ctx, s.dialect.rebind(deleteQuery), collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return storage.ErrRecordNotFound
	}

	return nil
}

// recordArgs готовит аргументы INSERT: collection, id, data, created_at, updated_at.
// created_at берется из поля сущности, если оно задано в RFC3339, иначе - время сервера.
func (s *Storage) recordArgs(collection string, entity models.Entity) ([]any, error) {
	id := entity.ID()
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", storage.ErrInvalidRecord)
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidRecord, err)
	}

	now := s.now().UTC()
	createdAt, ok := entity.CreatedAt()
	if !ok {
		createdAt = now
	}

	return []any{collection, id, string(data), createdAt.UnixNano(), now.UnixNano()}, nil
}

func decodeRecord(data string) (models.Entity, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()

	var entity models.Entity
	if err := dec.Decode(&entity); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}

	return entity, nil
}
