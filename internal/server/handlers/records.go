package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/octosync/internal/models"
	"github.com/iudanet/octosync/internal/server/storage"
	"github.com/iudanet/octosync/internal/validation"
	"github.com/iudanet/octosync/pkg/api"
)

// MaxBodyBytes ограничивает размер тела запроса на запись
const MaxBodyBytes = api.MaxRequestBytes

// URL параметры маршрутов записей
const (
	CollectionParam = "collection"
	IDParam         = "id"
)

// RecordStorage определяет интерфейс для работы с записями коллекций
type RecordStorage interface {
	SelectAll(ctx context.Context, collection string) (models.Snapshot, error)
	SelectByID(ctx context.Context, collection, id string) (models.Entity, error)
	Insert(ctx context.Context, collection string, entity models.Entity) (bool, error)
	Upsert(ctx context.Context, collection string, entities models.Snapshot) (int, error)
	Delete(ctx context.Context, collection, id string) error
}

// RecordsHandler обрабатывает CRUD запросы к записям коллекций
type RecordsHandler struct {
	logger  *slog.Logger
	storage RecordStorage
}

// NewRecordsHandler создает новый handler записей
func NewRecordsHandler(logger *slog.Logger, storage RecordStorage) *RecordsHandler {
	return &RecordsHandler{
		logger:  logger,
		storage: storage,
	}
}

// List обрабатывает GET /api/v1/collections/{collection}/records
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collection(w, r)
	if !ok {
		return
	}

	snapshot, err := h.storage.SelectAll(r.Context(), collection)
	if err != nil {
		h.storageError(w, err, "Failed to select records", "collection", collection)
		return
	}

	records := make([]api.Record, 0, len(snapshot))
	for _, e := range snapshot {
		records = append(records, api.Record(e))
	}

	writeJSON(w, h.logger, http.StatusOK, api.RecordsResponse{
		Collection: collection,
		Records:    records,
		Count:      len(records),
	})
}

// Get обрабатывает GET /api/v1/collections/{collection}/records/{id}
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	collection, id, ok := h.target(w, r)
	if !ok {
		return
	}

	entity, err := h.storage.SelectByID(r.Context(), collection, id)
	if err != nil {
		h.storageError(w, err, "Failed to get record", "collection", collection, "id", id)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.RecordResponse{Record: api.Record(entity)})
}

// Create обрабатывает POST /api/v1/collections/{collection}/records.
// Отвечает 201, если запись создана, и 200, если запись с таким id уже была.
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collection(w, r)
	if !ok {
		return
	}

	var record api.Record
	if !h.decode(w, r, &record) {
		return
	}

	entity := models.Entity(record)
	if err := validation.ValidateEntityID(entity.ID()); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid record id", err.Error())
		return
	}

	created, err := h.storage.Insert(r.Context(), collection, entity)
	if err != nil {
		h.storageError(w, err, "Failed to insert record", "collection", collection, "id", entity.ID())
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.logger.Debug("Record inserted", "collection", collection, "id", entity.ID(), "created", created)

	writeJSON(w, h.logger, status, api.InsertResponse{ID: entity.ID(), Created: created})
}

// Upsert обрабатывает PUT /api/v1/collections/{collection}/records
func (h *RecordsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collection(w, r)
	if !ok {
		return
	}

	var req api.UpsertRequest
	if !h.decode(w, r, &req) {
		return
	}

	snapshot := make(models.Snapshot, 0, len(req.Records))
	for _, rec := range req.Records {
		entity := models.Entity(rec)
		if err := validation.ValidateEntityID(entity.ID()); err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "invalid record id", err.Error())
			return
		}
		snapshot = append(snapshot, entity)
	}

	n, err := h.storage.Upsert(r.Context(), collection, snapshot)
	if err != nil {
		h.storageError(w, err, "Failed to upsert records", "collection", collection, "count", len(snapshot))
		return
	}

	h.logger.Info("Records upserted", "collection", collection, "count", n)
	writeJSON(w, h.logger, http.StatusOK, api.UpsertResponse{Upserted: n})
}

// Delete обрабатывает DELETE /api/v1/collections/{collection}/records/{id}
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	collection, id, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.storage.Delete(r.Context(), collection, id); err != nil {
		h.storageError(w, err, "Failed to delete record", "collection", collection, "id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// collection извлекает и проверяет имя коллекции из URL
func (h *RecordsHandler) collection(w http.ResponseWriter, r *http.Request) (string, bool) {
	collection := chi.URLParam(r, CollectionParam)
	if err := validation.ValidateCollection(collection); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid collection", err.Error())
		return "", false
	}
	return collection, true
}

// target извлекает коллекцию и id записи из URL
func (h *RecordsHandler) target(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	collection, ok := h.collection(w, r)
	if !ok {
		return "", "", false
	}

	id := chi.URLParam(r, IDParam)
	if err := validation.ValidateEntityID(id); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid record id", err.Error())
		return "", "", false
	}

	return collection, id, true
}

// decode читает JSON тело запроса. Числа остаются json.Number.
func (h *RecordsHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		h.logger.Warn("Failed to decode request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// storageError сопоставляет ошибку хранилища с HTTP кодом
func (h *RecordsHandler) storageError(w http.ResponseWriter, err error, msg string, attrs ...any) {
	switch {
	case errors.Is(err, storage.ErrRecordNotFound):
		writeError(w, h.logger, http.StatusNotFound, "record not found", "")
	case errors.Is(err, storage.ErrInvalidRecord):
		writeError(w, h.logger, http.StatusBadRequest, "invalid record", err.Error())
	default:
		h.logger.Error(msg, append(attrs, "error", err)...)
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error", "")
	}
}
