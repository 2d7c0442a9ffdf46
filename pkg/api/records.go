// Package api contains the wire types shared by octosync-server and its clients.
package api

// MaxRequestBytes - максимальный размер тела запроса на запись, который принимает сервер
const MaxRequestBytes = 4 << 20

// Record - запись коллекции в том виде, в каком она передается по сети.
// Обязательно только строковое поле "id".
type Record = map[string]any

// RecordsResponse представляет ответ со всеми записями коллекции
type RecordsResponse struct {
	Collection string   `json:"collection"`
	Records    []Record `json:"records"` // отсортированы по created_at DESC
	Count      int      `json:"count"`
}

// RecordResponse представляет ответ с одной записью
type RecordResponse struct {
	Record Record `json:"record"`
}

// InsertResponse представляет ответ на вставку записи
type InsertResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"` // false - запись с таким id уже существовала
}

// UpsertRequest представляет запрос на вставку или обновление записей по id
type UpsertRequest struct {
	Records []Record `json:"records"`
}

// UpsertResponse представляет ответ на upsert
type UpsertResponse struct {
	Upserted int `json:"upserted"`
}
