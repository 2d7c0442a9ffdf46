package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/octosync/internal/client/remote"
	"github.com/iudanet/octosync/internal/models"
	"github.com/iudanet/octosync/internal/validation"
	"github.com/iudanet/octosync/pkg/api"
)

// DefaultTimeout - верхняя граница одного HTTP запроса.
// Фактический дедлайн задает контекст вызова.
const DefaultTimeout = 2 * time.Minute

var _ remote.Client = (*Client)(nil)

// StatusError описывает ответ сервера с кодом вне диапазона 2xx.
// Unwrap возвращает сентинел пакета remote, соответствующий коду.
type StatusError struct {
	kind    error
	Message string
	Code    int
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.Code)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// Client представляет HTTP клиент для взаимодействия с octosync-server
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	// maxBatchBytes - предельный размер тела одного PUT запроса
	maxBatchBytes int
}

// NewClient создает новый API клиент. token передается как Bearer, пустой token не отправляется.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         token,
		maxBatchBytes: api.MaxRequestBytes,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SelectAll возвращает все записи коллекции, новые первыми
func (c *Client) SelectAll(ctx context.Context, collection string) (models.Snapshot, error) {
	if err := validation.ValidateCollection(collection); err != nil {
		return nil, fmt.Errorf("%w: %v", remote.ErrRejected, err)
	}

	var resp api.RecordsResponse
	if err := c.doRequest(ctx, http.MethodGet, recordsPath(collection), nil, &resp); err != nil {
		return nil, fmt.Errorf("select %s: %w", collection, err)
	}

	snapshot := make(models.Snapshot, 0, len(resp.Records))
	for _, rec := range resp.Records {
		snapshot = append(snapshot, models.Entity(rec))
	}

	return snapshot, nil
}

// SelectByID возвращает одну запись или ошибку, оборачивающую remote.ErrNotFound
func (c *Client) SelectByID(ctx context.Context, collection, id string) (models.Entity, error) {
	if err := validateTarget(collection, id); err != nil {
		return nil, err
	}

	var resp api.RecordResponse
	if err := c.doRequest(ctx, http.MethodGet, recordPath(collection, id), nil, &resp); err != nil {
		return nil, fmt.Errorf("select %s/%s: %w", collection, id, err)
	}
	if resp.Record == nil {
		return nil, fmt.Errorf("select %s/%s: %w", collection, id, remote.ErrNotFound)
	}

	return models.Entity(resp.Record), nil
}

// Insert создает запись. Повторная вставка существующего id не считается ошибкой.
func (c *Client) Insert(ctx context.Context, collection string, entity models.Entity) error {
	if err := validateTarget(collection, entity.ID()); err != nil {
		return err
	}

	var resp api.InsertResponse
	if err := c.doRequest(ctx, http.MethodPost, recordsPath(collection), api.Record(entity), &resp); err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, entity.ID(), err)
	}

	return nil
}

// Upsert вставляет или заменяет записи по id.
// Записи отправляются пачками, каждая из которых помещается в лимит тела запроса сервера.
func (c *Client) Upsert(ctx context.Context, collection string, entities models.Snapshot) error {
	if err := validation.ValidateCollection(collection); err != nil {
		return fmt.Errorf("%w: %v", remote.ErrRejected, err)
	}

	records := make([]api.Record, 0, len(entities))
	for _, e := range entities {
		if err := validation.ValidateEntityID(e.ID()); err != nil {
			return fmt.Errorf("%w: %v", remote.ErrRejected, err)
		}
		records = append(records, api.Record(e))
	}

	batches, err := splitBatches(records, c.maxBatchBytes)
	if err != nil {
		return err
	}

	for i, batch := range batches {
		var resp api.UpsertResponse
		req := api.UpsertRequest{Records: batch}
		if err := c.doRequest(ctx, http.MethodPut, recordsPath(collection), req, &resp); err != nil {
			return fmt.Errorf("upsert %s (batch %d/%d, %d records): %w", collection, i+1, len(batches), len(batch), err)
		}
	}

	return nil
}

// splitBatches делит записи на пачки, сериализованный UpsertRequest каждой не больше limit.
// Запись крупнее лимита уходит отдельной пачкой, сервер отклонит ее сам.
func splitBatches(records []api.Record, limit int) ([][]api.Record, error) {
	envelope := len(`{"records":[]}`)

	var (
		batches [][]api.Record
		current []api.Record
	)
	size := envelope

	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to marshal record %v: %v", remote.ErrRejected, rec["id"], err)
		}

		// +1 на запятую между записями
		n := len(data) + 1
		if len(current) > 0 && size+n > limit {
			batches = append(batches, current)
			current, size = nil, envelope
		}
		current = append(current, rec)
		size += n
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}

	return batches, nil
}

// Delete удаляет запись. Отсутствие записи на сервере не считается ошибкой.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	if err := validateTarget(collection, id); err != nil {
		return err
	}

	err := c.doRequest(ctx, http.MethodDelete, recordPath(collection, id), nil, nil)
	if err != nil && !errors.Is(err, remote.ErrNotFound) {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}

	return nil
}

func recordsPath(collection string) string {
	return "/api/v1/collections/" + url.PathEscape(collection) + "/records"
}

func recordPath(collection, id string) string {
	return recordsPath(collection) + "/" + url.PathEscape(id)
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

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal request body: %v", remote.ErrRejected, err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Ошибки контекста оставляем как есть, чтобы отличать таймаут от сетевого сбоя
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("request failed: %w", ctxErr)
		}
		return fmt.Errorf("%w: request failed: %v", remote.ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", remote.ErrUnavailable, err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Code: resp.StatusCode, kind: kindForStatus(resp.StatusCode)}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			statusErr.Message = errResp.Error
			if errResp.Message != "" {
				statusErr.Message += ": " + errResp.Message
			}
		}
		return statusErr
	}

	// Декодируем успешный ответ. Числа оставляем json.Number, как в локальном снимке
	if result != nil && len(respBody) > 0 {
		dec := json.NewDecoder(bytes.NewReader(respBody))
		dec.UseNumber()
		if err := dec.Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", remote.ErrUnavailable, err)
		}
	}

	return nil
}

// kindForStatus сопоставляет HTTP код с классом ошибки удаленного хранилища
func kindForStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return remote.ErrUnauthorized
	case code == http.StatusNotFound:
		return remote.ErrNotFound
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout, code >= 500:
		return remote.ErrUnavailable
	default:
		return remote.ErrRejected
	}
}
