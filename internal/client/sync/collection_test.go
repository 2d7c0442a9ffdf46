package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/octosync/internal/client/remote"
	"github.com/iudanet/octosync/internal/client/storage"
	"github.com/iudanet/octosync/internal/models"
	"github.com/iudanet/octosync/internal/resilience"
)

func newTestEngine(t *testing.T, local storage.LocalStore, client remote.Client, opts ...Option) *Engine {
	t.Helper()

	opts = append([]Option{WithPolicies(testPolicies())}, opts...)
	e := NewEngine(local, client, setupTestLogger(), opts...)
	t.Cleanup(e.Close)

	return e
}

func TestCreate_ReturnsBeforeRemoteResolves(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	client := newFakeRemote().mock()
	client.InsertFunc = func(ctx context.Context, collection string, entity models.Entity) error {
		<-release
		return nil
	}

	engine := newTestEngine(t, memoryLocal(), client)
	projects := engine.Collection(models.CollectionProjects)

	start := time.Now()
	created, err := projects.Create(context.Background(), map[string]any{"name": "Octopus"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	assert.NotEmpty(t, created.ID())
	_, ok := created.CreatedAt()
	assert.True(t, ok)

	// Запись видна локально, пока удаленная вставка висит
	local := projects.Local(context.Background())
	require.Len(t, local, 1)
	assert.Equal(t, created.ID(), local[0].ID())
	assert.Equal(t, "Octopus", local[0]["name"])

	assert.Eventually(t, func() bool {
		return len(client.InsertCalls()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), projects.Stats().InFlight())
}

func TestUpdate_ReturnsBeforeRemoteResolves(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	client := newFakeRemote().mock()
	client.UpsertFunc = func(ctx context.Context, collection string, entities models.Snapshot) error {
		<-release
		return nil
	}

	engine := newTestEngine(t, memoryLocal(), client)
	leads := engine.Collection(models.CollectionLeads)

	start := time.Now()
	updated, err := leads.Update(context.Background(), entity("l-1", "ACME"))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
	assert.Equal(t, "l-1", updated.ID())

	assert.Equal(t, []string{"l-1:ACME"}, names(leads.Local(context.Background())))

	assert.Eventually(t, func() bool {
		return len(client.UpsertCalls()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), leads.Stats().InFlight())
}

func TestDelete_ReturnsBeforeRemoteResolves(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	client := newFakeRemote().mock()
	client.DeleteFunc = func(ctx context.Context, collection string, id string) error {
		<-release
		return nil
	}

	local := memoryLocal()
	seed := NewEngine(local, nil, setupTestLogger())
	_, err := seed.Collection(models.CollectionLeads).Update(context.Background(), entity("l-1", "ACME"))
	require.NoError(t, err)
	seed.Close()

	engine := newTestEngine(t, local, client)
	leads := engine.Collection(models.CollectionLeads)

	start := time.Now()
	require.NoError(t, leads.Delete(context.Background(), "l-1"))
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	assert.Empty(t, leads.Local(context.Background()))

	assert.Eventually(t, func() bool {
		return len(client.DeleteCalls()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), leads.Stats().InFlight())
}

func TestCreate_AppendsAndPushes(t *testing.T) {
	fake := newFakeRemote()
	sink := newEventSink()

	ids := []string{"id-1", "id-2"}
	var next int
	engine := newTestEngine(t, memoryLocal(), fake.mock(),
		WithObserver(sink.observe),
		WithIDGenerator(func() string { id := ids[next]; next++; return id }),
		WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }),
	)
	leads := engine.Collection(models.CollectionLeads)
	ctx := context.Background()

	payload := map[string]any{"name": "first", "id": "caller-supplied"}
	first, err := leads.Create(ctx, payload)
	require.NoError(t, err)
	_, err = leads.Create(ctx, map[string]any{"name": "second"})
	require.NoError(t, err)

	assert.Equal(t, "id-1", first.ID())
	assert.Equal(t, "2026-01-02T03:04:05Z", first[models.FieldCreatedAt])
	assert.Equal(t, "caller-supplied", payload["id"], "payload must not be modified")

	// Новые записи добавляются в конец
	assert.Equal(t, []string{"id-1:first", "id-2:second"}, names(leads.Local(ctx)))

	for i := 0; i < 2; i++ {
		ev := sink.wait(t)
		assert.Equal(t, OpInsert, ev.Op)
		assert.Equal(t, resilience.StatusSuccess, ev.Status)
	}
	assert.Len(t, fake.all(models.CollectionLeads), 2)
	assert.Equal(t, int64(2), leads.Stats().Confirmed)
}

func TestCreate_NotSerializable(t *testing.T) {
	engine := newTestEngine(t, memoryLocal(), nil)
	c := engine.Collection("projects")

	_, err := c.Create(context.Background(), map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
	assert.Empty(t, c.Local(context.Background()))
}

func TestGetAll_RemoteWinsOnConflict(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	fake.seed("projects", entity("a", "remote"))

	client := fake.mock()
	client.UpsertFunc = func(ctx context.Context, collection string, entities models.Snapshot) error {
		return remote.ErrRejected
	}

	engine := newTestEngine(t, memoryLocal(), client)
	c := engine.Collection("projects")

	// Локальная версия записи a отличается от удаленной и не доходит до сервера
	_, err := c.Update(ctx, entity("a", "local"))
	require.NoError(t, err)

	merged := c.GetAll(ctx)
	assert.Equal(t, []string{"a:remote"}, names(merged))
}

func TestGetAll_LocalUniquePreserved(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	fake.seed("projects", entity("a", "from-remote"))

	client := fake.mock()
	// Удаленная запись b не доходит до сервера
	client.UpsertFunc = func(ctx context.Context, collection string, entities models.Snapshot) error {
		return remote.ErrUnavailable
	}

	engine := newTestEngine(t, memoryLocal(), client)
	c := engine.Collection("projects")

	_, err := c.Update(ctx, entity("b", "local-only"))
	require.NoError(t, err)

	merged := c.GetAll(ctx)
	assert.Equal(t, []string{"a:from-remote", "b:local-only"}, names(merged))

	// Слитый снимок записан локально
	assert.Equal(t, []string{"a:from-remote", "b:local-only"}, names(c.Local(ctx)))
}

func TestGetAll_RemoteFailureServesLocal(t *testing.T) {
	ctx := context.Background()
	client := newFakeRemote().mock()
	client.SelectAllFunc = func(ctx context.Context, collection string) (models.Snapshot, error) {
		return nil, remote.ErrUnauthorized
	}

	engine := newTestEngine(t, memoryLocal(), client)
	c := engine.Collection("leads")
	_, err := c.Update(ctx, entity("x", "kept"))
	require.NoError(t, err)

	assert.Equal(t, []string{"x:kept"}, names(c.GetAll(ctx)))
	// Ошибки авторизации повторяются так же, как временные
	assert.Len(t, client.SelectAllCalls(), 3)
}

func TestGetAll_RemoteTimeoutServesLocal(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	client := newFakeRemote().mock()
	client.SelectAllFunc = func(ctx context.Context, collection string) (models.Snapshot, error) {
		<-release
		return nil, nil
	}

	policies := testPolicies()
	policies.Bulk.Timeout = 50 * time.Millisecond

	engine := newTestEngine(t, memoryLocal(), client, WithPolicies(policies))
	c := engine.Collection("leads")
	_, err := c.Update(context.Background(), entity("x", "kept"))
	require.NoError(t, err)

	start := time.Now()
	got := c.GetAll(context.Background())
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, []string{"x:kept"}, names(got))
}

func TestGetAll_NoRemote(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, memoryLocal(), nil)
	c := engine.Collection("leads")

	_, err := c.Create(ctx, map[string]any{"name": "offline"})
	require.NoError(t, err)

	got := c.GetAll(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "offline", got[0]["name"])
	assert.Zero(t, c.Stats().Dispatched)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	fake.seed("projects", entity("remote-only", "r"))
	client := fake.mock()

	engine := newTestEngine(t, memoryLocal(), client)
	c := engine.Collection("projects")
	_, err := c.Update(ctx, entity("local", "l"))
	require.NoError(t, err)

	t.Run("local hit does not call remote", func(t *testing.T) {
		got, err := c.GetByID(ctx, "local")
		require.NoError(t, err)
		assert.Equal(t, "l", got["name"])
		assert.Empty(t, client.SelectByIDCalls())
	})

	t.Run("remote fallback", func(t *testing.T) {
		got, err := c.GetByID(ctx, "remote-only")
		require.NoError(t, err)
		assert.Equal(t, "r", got["name"])

		// Результат удаленного поиска не попадает в локальный снимок
		_, found := c.Local(ctx).Find("remote-only")
		assert.False(t, found)
	})

	t.Run("not found anywhere", func(t *testing.T) {
		_, err := c.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := c.GetByID(ctx, "")
		assert.ErrorIs(t, err, ErrMissingID)
	})
}

func TestGetByID_RemoteFailure(t *testing.T) {
	client := newFakeRemote().mock()
	client.SelectByIDFunc = func(ctx context.Context, collection string, id string) (models.Entity, error) {
		return nil, remote.ErrUnavailable
	}

	engine := newTestEngine(t, memoryLocal(), client)

	_, err := engine.Collection("projects").GetByID(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "soft_failure")
	// Одиночный поиск выполняется без повторов
	assert.Len(t, client.SelectByIDCalls(), 1)
}

func TestUpdate_ReplacesOrAppends(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, memoryLocal(), nil)
	c := engine.Collection("academy_resources")

	_, err := c.Update(ctx, entity("a", "v1"))
	require.NoError(t, err)
	_, err = c.Update(ctx, entity("b", "v1"))
	require.NoError(t, err)
	_, err = c.Update(ctx, entity("a", "v2"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a:v2", "b:v1"}, names(c.Local(ctx)))
}

func TestUpdate_MissingID(t *testing.T) {
	engine := newTestEngine(t, memoryLocal(), nil)

	_, err := engine.Collection("projects").Update(context.Background(), models.Entity{"name": "x"})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestUpdate_RetryThenSucceed(t *testing.T) {
	sink := newEventSink()
	client := newFakeRemote().mock()

	var mu sync.Mutex
	calls := 0
	client.UpsertFunc = func(ctx context.Context, collection string, entities models.Snapshot) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls <= 2 {
			return fmt.Errorf("upsert: %w", remote.ErrUnavailable)
		}
		return nil
	}

	engine := newTestEngine(t, memoryLocal(), client, WithObserver(sink.observe))

	_, err := engine.Collection("projects").Update(context.Background(), entity("a", "x"))
	require.NoError(t, err)

	ev := sink.wait(t)
	assert.Equal(t, OpUpsert, ev.Op)
	assert.Equal(t, "a", ev.EntityID)
	assert.Equal(t, resilience.StatusSuccess, ev.Status)
	assert.Equal(t, 3, ev.Attempts)
}

func TestUpdate_RejectedIsNotRetried(t *testing.T) {
	sink := newEventSink()
	client := newFakeRemote().mock()
	client.UpsertFunc = func(ctx context.Context, collection string, entities models.Snapshot) error {
		return remote.ErrRejected
	}

	engine := newTestEngine(t, memoryLocal(), client, WithObserver(sink.observe))
	c := engine.Collection("projects")

	_, err := c.Update(context.Background(), entity("a", "x"))
	require.NoError(t, err)

	ev := sink.wait(t)
	assert.Equal(t, resilience.StatusSoftFailure, ev.Status)
	assert.Equal(t, remote.KindRejected, ev.Kind)
	assert.Equal(t, 1, ev.Attempts)
	assert.Equal(t, int64(1), c.Stats().SoftFailed)

	// Локальная запись остается на месте
	assert.Len(t, c.Local(context.Background()), 1)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	sink := newEventSink()

	engine := newTestEngine(t, memoryLocal(), fake.mock(), WithObserver(sink.observe))
	c := engine.Collection("user_roles")

	_, err := c.Update(ctx, entity("a", "x"))
	require.NoError(t, err)
	_, err = c.Update(ctx, entity("b", "y"))
	require.NoError(t, err)
	sink.wait(t)
	sink.wait(t)

	require.NoError(t, c.Delete(ctx, "a"))
	assert.Equal(t, []string{"b:y"}, names(c.Local(ctx)))

	ev := sink.wait(t)
	assert.Equal(t, OpDelete, ev.Op)
	assert.Equal(t, resilience.StatusSuccess, ev.Status)
	assert.Equal(t, []string{"b:y"}, names(fake.all("user_roles")))
}

func TestDelete_AbsentLocallyStillDispatched(t *testing.T) {
	ctx := context.Background()
	local := memoryLocal()
	fake := newFakeRemote()
	fake.seed("leads", entity("server-only", "s"))
	client := fake.mock()
	sink := newEventSink()

	engine := newTestEngine(t, local, client, WithObserver(sink.observe))

	require.NoError(t, engine.Collection("leads").Delete(ctx, "server-only"))
	sink.wait(t)

	assert.Len(t, client.DeleteCalls(), 1)
	assert.Empty(t, fake.all("leads"))
	// Снимок не изменился, поэтому записи не было
	assert.Empty(t, local.SetCalls())
}

func TestDelete_MissingID(t *testing.T) {
	engine := newTestEngine(t, memoryLocal(), nil)
	assert.ErrorIs(t, engine.Collection("leads").Delete(context.Background(), ""), ErrMissingID)
}

// Без tombstone неудачное удаленное удаление приводит к воскрешению записи
// при следующем слитом чтении.
func TestDelete_ResurrectedWhenRemoteDeleteFails(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	fake.seed("projects", entity("a", "zombie"))

	client := fake.mock()
	client.DeleteFunc = func(ctx context.Context, collection string, id string) error {
		return remote.ErrUnavailable
	}
	sink := newEventSink()

	engine := newTestEngine(t, memoryLocal(), client, WithObserver(sink.observe))
	c := engine.Collection("projects")

	require.Equal(t, []string{"a:zombie"}, names(c.GetAll(ctx)))

	require.NoError(t, c.Delete(ctx, "a"))
	assert.Empty(t, c.Local(ctx))

	ev := sink.wait(t)
	require.Equal(t, resilience.StatusSoftFailure, ev.Status)
	assert.Equal(t, 3, ev.Attempts)

	assert.Equal(t, []string{"a:zombie"}, names(c.GetAll(ctx)))
}

func TestForceSync_Idempotent(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	client := fake.mock()

	engine := newTestEngine(t, memoryLocal(), nil)
	c := engine.Collection("calendar_events")
	for i := 0; i < 5; i++ {
		_, err := c.Update(ctx, entity(fmt.Sprintf("e%d", i), "event"))
		require.NoError(t, err)
	}

	// Подключаем удаленное хранилище к движку с тем же локальным хранилищем
	synced := newTestEngine(t, engine.local, client).Collection("calendar_events")

	first := synced.ForceSync(ctx)
	require.True(t, first.OK())
	assert.Equal(t, 5, first.Value)

	second := synced.ForceSync(ctx)
	require.True(t, second.OK())

	remoteSnap := fake.all("calendar_events")
	assert.Len(t, remoteSnap, 5)
	_, dropped := remoteSnap.Normalize()
	assert.Zero(t, dropped)
	assert.Len(t, client.UpsertCalls(), 2)
}

func TestForceSync_DoesNotModifyLocal(t *testing.T) {
	ctx := context.Background()
	local := memoryLocal()
	fake := newFakeRemote()
	fake.seed("projects", entity("remote-only", "r"))

	engine := newTestEngine(t, local, nil)
	c := engine.Collection("projects")
	_, err := c.Update(ctx, entity("a", "x"))
	require.NoError(t, err)
	setsBefore := len(local.SetCalls())

	out := newTestEngine(t, local, fake.mock()).Collection("projects").ForceSync(ctx)
	require.True(t, out.OK())

	assert.Len(t, local.SetCalls(), setsBefore)
	assert.Equal(t, []string{"a:x"}, names(c.Local(ctx)))
}

func TestForceSync_EmptySnapshot(t *testing.T) {
	client := newFakeRemote().mock()
	engine := newTestEngine(t, memoryLocal(), client)

	out := engine.Collection("projects").ForceSync(context.Background())

	assert.Equal(t, resilience.StatusSuccess, out.Status)
	assert.Zero(t, out.Value)
	assert.Empty(t, client.UpsertCalls())
}

func TestForceSync_Timeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	client := newFakeRemote().mock()
	client.UpsertFunc = func(ctx context.Context, collection string, entities models.Snapshot) error {
		<-release
		return nil
	}

	local := memoryLocal()
	seedEngine := newTestEngine(t, local, nil)
	_, err := seedEngine.Collection("projects").Update(context.Background(), entity("a", "x"))
	require.NoError(t, err)

	policies := testPolicies()
	policies.Bulk.Timeout = 50 * time.Millisecond
	engine := newTestEngine(t, local, client, WithPolicies(policies))

	start := time.Now()
	out := engine.Collection("projects").ForceSync(context.Background())
	elapsed := time.Since(start)

	assert.Equal(t, resilience.StatusTimeout, out.Status)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestForceSync_NoRemote(t *testing.T) {
	engine := newTestEngine(t, memoryLocal(), nil)

	out := engine.Collection("projects").ForceSync(context.Background())
	assert.Equal(t, resilience.StatusSoftFailure, out.Status)
	assert.ErrorIs(t, out.Err, ErrNoRemote)
}

func TestForceSync_SavesReconcileTime(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	meta := &storage.MetadataStorageMock{
		SaveLastReconcileFunc: func(ctx context.Context, collection string, at time.Time) error {
			return nil
		},
	}

	engine := newTestEngine(t, memoryLocal(), newFakeRemote().mock(),
		WithMetadata(meta),
		WithClock(func() time.Time { return now }),
	)

	out := engine.Collection("leads").ForceSync(context.Background())
	require.True(t, out.OK())

	calls := meta.SaveLastReconcileCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "leads", calls[0].Collection)
	assert.Equal(t, now, calls[0].At)
}

func TestForceSync_FailureDoesNotSaveReconcileTime(t *testing.T) {
	meta := &storage.MetadataStorageMock{}
	client := newFakeRemote().mock()
	client.UpsertFunc = func(ctx context.Context, collection string, entities models.Snapshot) error {
		return remote.ErrRejected
	}

	local := memoryLocal()
	_, err := newTestEngine(t, local, nil).Collection("leads").Update(context.Background(), entity("a", "x"))
	require.NoError(t, err)

	out := newTestEngine(t, local, client, WithMetadata(meta)).Collection("leads").ForceSync(context.Background())
	assert.False(t, out.OK())
	assert.Empty(t, meta.SaveLastReconcileCalls())
}

func TestLocalPersistenceFailure_UsesInMemorySnapshot(t *testing.T) {
	ctx := context.Background()
	local := &storage.LocalStoreMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, storage.ErrStorageClosed
		},
		SetFunc: func(ctx context.Context, key string, value []byte) error {
			return errors.New("disk full")
		},
	}

	engine := newTestEngine(t, local, nil)
	c := engine.Collection("projects")

	// Нет снимка ни на диске, ни в памяти - пустая коллекция
	assert.Empty(t, c.GetAll(ctx))

	created, err := c.Create(ctx, map[string]any{"name": "memory"})
	require.NoError(t, err)

	got, err := c.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "memory", got["name"])
}

func TestCorruptedLocalSnapshot(t *testing.T) {
	ctx := context.Background()
	local := memoryLocal()
	require.NoError(t, local.Set(ctx, storage.SnapshotKey("", "projects"), []byte("{not json")))

	engine := newTestEngine(t, local, nil)
	c := engine.Collection("projects")

	assert.Empty(t, c.Local(ctx))

	_, err := c.Update(ctx, entity("a", "recovered"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a:recovered"}, names(c.Local(ctx)))

	// Поврежденный снимок на диске не перезаписан
	raw, err := local.Get(ctx, storage.SnapshotKey("", "projects"))
	require.NoError(t, err)
	assert.Equal(t, []byte("{not json"), raw)
}

func TestUnreadableSnapshot_NotOverwritten(t *testing.T) {
	ctx := context.Background()
	errUnreadable := errors.New("decryption failed")
	local := &storage.LocalStoreMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, errUnreadable
		},
		SetFunc: func(ctx context.Context, key string, value []byte) error {
			return nil
		},
	}

	fake := newFakeRemote()
	fake.seed("projects", entity("r1", "remote"))
	engine := newTestEngine(t, local, fake.mock())
	c := engine.Collection("projects")

	created, err := c.Create(ctx, map[string]any{"name": "offline"})
	require.NoError(t, err)
	_, err = c.Update(ctx, entity("u1", "updated"))
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, "u1"))
	merged := c.GetAll(ctx)

	// Изменения доступны из памяти, но на диск ничего не записано
	assert.Contains(t, names(merged), created.ID()+":offline")
	assert.Contains(t, names(merged), "r1:remote")
	assert.Empty(t, local.SetCalls())
	require.NoError(t, engine.Shutdown(ctx))
}

func TestConcurrentWrites_NoLostUpdates(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, memoryLocal(), newFakeRemote().mock())
	c := engine.Collection("leads")

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, err := c.Create(ctx, map[string]any{"n": i})
				assert.NoError(t, err)
				return
			}
			_, err := c.Update(ctx, entity(fmt.Sprintf("u%d", i), "x"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snapshot := c.Local(ctx)
	assert.Len(t, snapshot, writers)
	_, dropped := snapshot.Normalize()
	assert.Zero(t, dropped)
}

func TestGetAll_KeepsWritesMadeDuringFetch(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	fake.seed("projects", entity("r", "remote"))

	fetching := make(chan struct{})
	proceed := make(chan struct{})
	client := fake.mock()
	client.SelectAllFunc = func(ctx context.Context, collection string) (models.Snapshot, error) {
		close(fetching)
		<-proceed
		return fake.all(collection), nil
	}
	client.UpsertFunc = func(ctx context.Context, collection string, entities models.Snapshot) error {
		return remote.ErrRejected
	}

	engine := newTestEngine(t, memoryLocal(), client)
	c := engine.Collection("projects")

	done := make(chan models.Snapshot)
	go func() { done <- c.GetAll(ctx) }()

	<-fetching
	_, err := c.Update(ctx, entity("w", "written-during-fetch"))
	require.NoError(t, err)
	close(proceed)

	merged := <-done
	assert.Equal(t, []string{"r:remote", "w:written-during-fetch"}, names(merged))
}

func TestCollection_SameInstancePerName(t *testing.T) {
	engine := newTestEngine(t, memoryLocal(), nil)

	assert.Same(t, engine.Collection("projects"), engine.Collection("projects"))
	assert.NotSame(t, engine.Collection("projects"), engine.Collection("leads"))
	assert.Equal(t, "leads", engine.Collection("leads").Name())
}

func TestCollections_UseSeparateKeys(t *testing.T) {
	ctx := context.Background()
	local := memoryLocal()
	engine := newTestEngine(t, local, nil, WithApp("crm"))

	_, err := engine.Collection("projects").Update(ctx, entity("p", "x"))
	require.NoError(t, err)
	_, err = engine.Collection("leads").Update(ctx, entity("l", "y"))
	require.NoError(t, err)

	keys := make(map[string]bool)
	for _, call := range local.SetCalls() {
		keys[call.Key] = true
	}
	assert.Equal(t, map[string]bool{"crm_projects_local": true, "crm_leads_local": true}, keys)
}
