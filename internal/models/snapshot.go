package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Snapshot представляет полное содержимое одной коллекции в момент времени.
// Порядок элементов сохраняется; id внутри снимка уникальны после Normalize.
type Snapshot []Entity

// IndexOf возвращает позицию сущности с заданным id или -1
func (s Snapshot) IndexOf(id string) int {
	for i, e := range s {
		if e.ID() == id {
			return i
		}
	}
	return -1
}

// Find ищет сущность по id
func (s Snapshot) Find(id string) (Entity, bool) {
	if i := s.IndexOf(id); i >= 0 {
		return s[i], true
	}
	return nil, false
}

// IDs возвращает множество идентификаторов снимка
func (s Snapshot) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s))
	for _, e := range s {
		ids[e.ID()] = struct{}{}
	}
	return ids
}

// Clone создает глубокую копию снимка
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	out := make(Snapshot, len(s))
	for i, e := range s {
		out[i] = e.Clone()
	}
	return out
}

// Normalize удаляет сущности без id и дубликаты по id (побеждает первое вхождение).
// Возвращает нормализованный снимок и количество отброшенных элементов.
func (s Snapshot) Normalize() (Snapshot, int) {
	out := make(Snapshot, 0, len(s))
	seen := make(map[string]struct{}, len(s))
	dropped := 0

	for _, e := range s {
		id := e.ID()
		if id == "" {
			dropped++
			continue
		}
		if _, dup := seen[id]; dup {
			dropped++
			continue
		}
		seen[id] = struct{}{}
		out = append(out, e)
	}

	return out, dropped
}

// DecodeSnapshot десериализует снимок из JSON массива.
// Пустые данные означают пустую коллекцию. Числа сохраняются как json.Number,
// чтобы не терять точность при повторной сериализации.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Snapshot{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var snapshot Snapshot
	if err := dec.Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snapshot == nil {
		snapshot = Snapshot{}
	}

	return snapshot, nil
}

// EncodeSnapshot сериализует снимок в JSON массив (nil кодируется как [])
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s == nil {
		s = Snapshot{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}
