package sync

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/iudanet/octosync/internal/client/remote"
	"github.com/iudanet/octosync/internal/client/storage"
	"github.com/iudanet/octosync/internal/models"
	"github.com/iudanet/octosync/internal/resilience"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// testPolicies - короткие таймауты и паузы, чтобы тесты не ждали секундами
func testPolicies() resilience.Policies {
	return resilience.Policies{
		Lookup: resilience.Policy{Timeout: time.Second, MaxAttempts: 1, Retryable: remote.IsRetryable},
		Write:  resilience.Policy{Timeout: time.Second, MaxAttempts: 3, Backoff: time.Millisecond, Retryable: remote.IsRetryable},
		Bulk:   resilience.Policy{Timeout: time.Second, MaxAttempts: 3, Backoff: time.Millisecond, Retryable: remote.IsRetryable},
	}
}

// memoryLocal возвращает LocalStoreMock, хранящий значения в памяти
func memoryLocal() *storage.LocalStoreMock {
	var mu sync.Mutex
	data := make(map[string][]byte)

	return &storage.LocalStoreMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			mu.Lock()
			defer mu.Unlock()
			return data[key], nil
		},
		SetFunc: func(ctx context.Context, key string, value []byte) error {
			mu.Lock()
			defer mu.Unlock()
			data[key] = append([]byte(nil), value...)
			return nil
		},
	}
}

// fakeRemote - удаленное хранилище в памяти с уникальностью по id
type fakeRemote struct {
	records map[string]models.Snapshot
	mu      sync.Mutex
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{records: make(map[string]models.Snapshot)}
}

func (f *fakeRemote) seed(collection string, entities ...models.Entity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range entities {
		f.upsertLocked(collection, e)
	}
}

func (f *fakeRemote) all(collection string) models.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[collection].Clone()
}

func (f *fakeRemote) upsertLocked(collection string, e models.Entity) {
	snap := f.records[collection]
	if i := snap.IndexOf(e.ID()); i >= 0 {
		snap[i] = e.Clone()
	} else {
		snap = append(snap, e.Clone())
	}
	f.records[collection] = snap
}

// mock возвращает ClientMock, делегирующий вызовы в fakeRemote.
// Тесты подменяют отдельные Func для внедрения отказов.
func (f *fakeRemote) mock() *remote.ClientMock {
	return &remote.ClientMock{
		SelectAllFunc: func(ctx context.Context, collection string) (models.Snapshot, error) {
			return f.all(collection), nil
		},
		SelectByIDFunc: func(ctx context.Context, collection string, id string) (models.Entity, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if e, ok := f.records[collection].Find(id); ok {
				return e.Clone(), nil
			}
			return nil, remote.ErrNotFound
		},
		InsertFunc: func(ctx context.Context, collection string, entity models.Entity) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.records[collection].IndexOf(entity.ID()) < 0 {
				f.upsertLocked(collection, entity)
			}
			return nil
		},
		UpsertFunc: func(ctx context.Context, collection string, entities models.Snapshot) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			for _, e := range entities {
				f.upsertLocked(collection, e)
			}
			return nil
		},
		DeleteFunc: func(ctx context.Context, collection string, id string) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			snap := f.records[collection]
			if i := snap.IndexOf(id); i >= 0 {
				f.records[collection] = append(snap[:i], snap[i+1:]...)
			}
			return nil
		},
	}
}

// eventSink собирает терминальные события движка
type eventSink chan Event

func newEventSink() eventSink {
	return make(eventSink, 128)
}

func (s eventSink) observe(ev Event) {
	s <- ev
}

func (s eventSink) wait(t *testing.T) Event {
	t.Helper()
	select {
	case ev := <-s:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for remote operation event")
		return Event{}
	}
}

func entity(id, name string) models.Entity {
	return models.Entity{"id": id, "name": name}
}

func names(s models.Snapshot) []string {
	out := make([]string, 0, len(s))
	for _, e := range s {
		name, _ := e["name"].(string)
		out = append(out, e.ID()+":"+name)
	}
	return out
}
