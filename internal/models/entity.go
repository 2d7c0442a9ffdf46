package models

import (
	"encoding/json"
	"time"
)

// Имена служебных полей сущности
const (
	// FieldID единственное обязательное поле любой сущности
	FieldID = "id"
	// FieldCreatedAt время создания в формате RFC3339, проставляется при Create
	FieldCreatedAt = "created_at"
)

// Entity представляет запись коллекции.
// Ядро синхронизации не знает схему полезной нагрузки: обязательным является
// только строковое поле "id", остальные поля передаются как есть в JSON.
type Entity map[string]any

// NewEntity создает сущность из полезной нагрузки с заданным id и временем создания.
// Payload копируется, исходная map не изменяется.
func NewEntity(id string, createdAt time.Time, payload map[string]any) Entity {
	e := make(Entity, len(payload)+2)
	for k, v := range payload {
		e[k] = deepCopy(v)
	}
	e[FieldID] = id
	e[FieldCreatedAt] = createdAt.UTC().Format(time.RFC3339Nano)
	return e
}

// ID возвращает идентификатор сущности или пустую строку, если поле отсутствует
// или не является строкой.
func (e Entity) ID() string {
	id, _ := e[FieldID].(string)
	return id
}

// HasID сообщает, есть ли у сущности валидный идентификатор
func (e Entity) HasID() bool {
	return e.ID() != ""
}

// CreatedAt возвращает время создания, если поле created_at задано в RFC3339
func (e Entity) CreatedAt() (time.Time, bool) {
	raw, ok := e[FieldCreatedAt].(string)
	if !ok || raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Clone создает глубокую копию сущности
func (e Entity) Clone() Entity {
	if e == nil {
		return nil
	}
	out := make(Entity, len(e))
	for k, v := range e {
		out[k] = deepCopy(v)
	}
	return out
}

// deepCopy копирует JSON-совместимые значения (map, slice); остальные значения
// неизменяемы и возвращаются как есть.
func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case Entity:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	case json.RawMessage:
		out := make(json.RawMessage, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
