// Package objectstore implements remote.Client on top of an S3-compatible
// bucket. Each record is one JSON object named <prefix><collection>/<id>.json.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/iudanet/octosync/internal/client/remote"
	"github.com/iudanet/octosync/internal/models"
	"github.com/iudanet/octosync/internal/validation"
)

const objectSuffix = ".json"

var _ remote.Client = (*Store)(nil)

// Store хранит записи коллекций как JSON объекты в бакете
type Store struct {
	client ObjectClient
	logger *slog.Logger
	bucket string
	prefix string
}

// NewStore creates a record store over client
func NewStore(client ObjectClient, bucket, prefix string, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// EnsureBucket создает бакет, если его еще нет
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, classify(err))
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, classify(err))
	}
	s.logger.Info("Bucket created", "bucket", s.bucket)

	return nil
}

// SelectAll reads every record of the collection, newest created_at first
func (s *Store) SelectAll(ctx context.Context, collection string) (models.Snapshot, error) {
	if err := validation.ValidateCollection(collection); err != nil {
		return nil, fmt.Errorf("%w: %v", remote.ErrRejected, err)
	}

	type listed struct {
		entity   models.Entity
		modified time.Time
	}

	var records []listed
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.collectionPrefix(collection),
		Recursive: true,
	})

	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, classify(obj.Err))
		}
		if !strings.HasSuffix(obj.Key, objectSuffix) {
			continue
		}

		entity, err := s.read(ctx, obj.Key)
		if err != nil {
			// Объект мог быть удален между листингом и чтением
			if errors.Is(err, remote.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("select %s: %w", collection, err)
		}
		records = append(records, listed{entity: entity, modified: obj.LastModified})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return createdAt(records[i].entity, records[i].modified).After(createdAt(records[j].entity, records[j].modified))
	})

	snapshot := make(models.Snapshot, 0, len(records))
	for _, r := range records {
		snapshot = append(snapshot, r.entity)
	}

	return snapshot, nil
}

// SelectByID reads one record
func (s *Store) SelectByID(ctx context.Context, collection, id string) (models.Entity, error) {
	if err := validateTarget(collection, id); err != nil {
		return nil, err
	}

	entity, err := s.read(ctx, s.objectName(collection, id))
	if err != nil {
		return nil, fmt.Errorf("select %s/%s: %w", collection, id, err)
	}

	return entity, nil
}

// Insert writes the record only if no object with its id exists yet
func (s *Store) Insert(ctx context.Context, collection string, entity models.Entity) error {
	if err := validateTarget(collection, entity.ID()); err != nil {
		return err
	}

	opts := minio.PutObjectOptions{ContentType: "application/json"}
	opts.SetMatchETagExcept("*")

	err := s.write(ctx, collection, entity, opts)
	if err != nil && isPreconditionFailed(err) {
		// Запись уже существует: повторная вставка идемпотентна
		return nil
	}

	return err
}

// Upsert writes every record, replacing existing objects
func (s *Store) Upsert(ctx context.Context, collection string, entities models.Snapshot) error {
	if err := validation.ValidateCollection(collection); err != nil {
		return fmt.Errorf("%w: %v", remote.ErrRejected, err)
	}
	for _, e := range entities {
		if err := validation.ValidateEntityID(e.ID()); err != nil {
			return fmt.Errorf("%w: %v", remote.ErrRejected, err)
		}
	}

	for _, e := range entities {
		if err := s.write(ctx, collection, e, minio.PutObjectOptions{ContentType: "application/json"}); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes the record object. S3 treats missing objects as deleted.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := validateTarget(collection, id); err != nil {
		return err
	}

	err := s.client.RemoveObject(ctx, s.bucket, s.objectName(collection, id), minio.RemoveObjectOptions{})
	if err != nil {
		if errors.Is(classify(err), remote.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete %s/%s: %w", collection, id, classify(err))
	}

	return nil
}

func (s *Store) collectionPrefix(collection string) string {
	return s.prefix + collection + "/"
}

func (s *Store) objectName(collection, id string) string {
	return s.collectionPrefix(collection) + id + objectSuffix
}

func (s *Store) read(ctx context.Context, name string) (models.Entity, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, classify(err)
	}
	defer func() {
		_ = obj.Close()
	}()

	// minio GetObject ленивый: ошибка NoSuchKey приходит при чтении
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, classify(err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var entity models.Entity
	if err := dec.Decode(&entity); err != nil {
		return nil, fmt.Errorf("%w: object %s is not a JSON record: %v", remote.ErrRejected, name, err)
	}

	return entity, nil
}

func (s *Store) write(ctx context.Context, collection string, entity models.Entity, opts minio.PutObjectOptions) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal record: %v", remote.ErrRejected, err)
	}

	name := s.objectName(collection, entity.ID())
	if _, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return fmt.Errorf("put %s: %w", name, classify(err))
	}

	return nil
}

// createdAt возвращает время создания записи, при его отсутствии - время изменения объекта
func createdAt(e models.Entity, modified time.Time) time.Time {
	if t, ok := e.CreatedAt(); ok {
		return t
	}
	return modified
}

func validateTarget(collection, id string) error {
	if err := validation.ValidateCollection(collection); err != nil {
		return fmt.Errorf("%w: %v", remote.ErrRejected, err)
	}
	if err := validation.ValidateEntityID(id); err != nil {
		return fmt.Errorf("%w: %v", remote.ErrRejected, err)
	}
	return nil
}

func isPreconditionFailed(err error) bool {
	var s3Err minio.ErrorResponse
	if errors.As(err, &s3Err) {
		return s3Err.Code == "PreconditionFailed" || s3Err.StatusCode == http.StatusPreconditionFailed
	}
	return false
}

// classify оборачивает ошибку S3 в сентинел пакета remote, сохраняя исходную ошибку в цепочке
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound && resp.Code != "NoSuchBucket":
		return fmt.Errorf("%w: %w", remote.ErrNotFound, err)
	case resp.Code == "AccessDenied" || resp.Code == "InvalidAccessKeyId" || resp.Code == "SignatureDoesNotMatch" ||
		resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %w", remote.ErrUnauthorized, err)
	case resp.Code == "NoSuchBucket" || resp.Code == "InvalidBucketName" || resp.Code == "EntityTooLarge":
		return fmt.Errorf("%w: %w", remote.ErrRejected, err)
	case resp.Code == "PreconditionFailed":
		return fmt.Errorf("%w: %w", remote.ErrRejected, err)
	default:
		return fmt.Errorf("%w: %w", remote.ErrUnavailable, err)
	}
}
