package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/octosync/internal/client/remote"
	"github.com/iudanet/octosync/internal/models"
	"github.com/iudanet/octosync/internal/resilience"
)

// Collection is the synchronizer of one named collection
type Collection struct {
	engine *Engine
	logger *slog.Logger
	name   string
	key    string

	// cached - последний снимок, прочитанный или записанный локально.
	// Используется, если локальное хранилище недоступно.
	cached models.Snapshot
	stats  counters
	// unreadable - снимок на диске есть, но последнее чтение не удалось.
	// Пока флаг поднят, изменения не записываются поверх него.
	unreadable bool
	// mu сериализует цикл load -> mutate -> store внутри коллекции
	mu sync.Mutex
}

// Name возвращает имя коллекции
func (c *Collection) Name() string {
	return c.name
}

// Stats возвращает счетчики фоновых удаленных операций
func (c *Collection) Stats() Stats {
	return c.stats.snapshot()
}

// Local returns the local snapshot without touching the remote
func (c *Collection) Local(ctx context.Context) models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.load(ctx).Clone()
}

// GetAll returns the merged view of the collection.
//
// The remote snapshot is fetched under the bulk policy. On success the merge
// (remote entities first, then local-only ones) is persisted locally and
// returned. On soft failure, timeout or without a remote the local snapshot is
// returned unchanged.
func (c *Collection) GetAll(ctx context.Context) models.Snapshot {
	local := c.Local(ctx)

	if c.engine.remote == nil {
		return local
	}

	out := resilience.Do(ctx, c.engine.policies.Bulk, func(ctx context.Context) (models.Snapshot, error) {
		return c.engine.remote.SelectAll(ctx, c.name)
	})
	if !out.OK() {
		c.logger.Warn("Remote read failed, serving local snapshot",
			"status", out.Status.String(),
			"kind", remote.KindOf(out.Err),
			"attempts", out.Attempts,
			"error", out.Err)
		return local
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Перечитываем локальный снимок: за время запроса могли появиться локальные записи
	current := c.load(ctx)
	merged := Merge(out.Value, current)
	c.store(ctx, merged)

	c.logger.Debug("Collection merged",
		"remote", len(out.Value),
		"local", len(current),
		"merged", len(merged))

	return merged.Clone()
}

// GetByID returns the entity from the local snapshot, falling back to a
// single remote lookup when it is absent locally.
// The remote result is not written to the local snapshot.
func (c *Collection) GetByID(ctx context.Context, id string) (models.Entity, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	if e, ok := c.Local(ctx).Find(id); ok {
		return e, nil
	}

	if c.engine.remote == nil {
		return nil, ErrNotFound
	}

	out := resilience.Do(ctx, c.engine.policies.Lookup, func(ctx context.Context) (models.Entity, error) {
		return c.engine.remote.SelectByID(ctx, c.name, id)
	})

	switch {
	case out.OK() && out.Value != nil:
		return out.Value.Clone(), nil
	case out.OK(), remote.KindOf(out.Err) == remote.KindNotFound:
		return nil, ErrNotFound
	default:
		c.logger.Warn("Remote lookup failed",
			"id", id,
			"status", out.Status.String(),
			"kind", remote.KindOf(out.Err),
			"error", out.Err)
		return nil, fmt.Errorf("%w (remote lookup %s: %v)", ErrNotFound, out.Status, out.Err)
	}
}

// Create assigns a new id and creation time to payload, appends the entity
// to the local snapshot and returns it. The remote insert runs in background.
func (c *Collection) Create(ctx context.Context, payload map[string]any) (models.Entity, error) {
	entity := models.NewEntity(c.engine.newID(), c.engine.now(), payload)
	if err := checkEncodable(entity); err != nil {
		return nil, err
	}

	c.mu.Lock()
	snapshot := c.load(ctx)
	snapshot = append(snapshot, entity)
	c.store(ctx, snapshot)
	c.mu.Unlock()

	pushed := entity.Clone()
	c.dispatch(OpInsert, pushed.ID(), c.engine.policies.Write, func(ctx context.Context) error {
		return c.engine.remote.Insert(ctx, c.name, pushed)
	})

	return entity.Clone(), nil
}

// Update replaces the entity with the same id or appends it when absent.
// The remote upsert runs in background.
func (c *Collection) Update(ctx context.Context, entity models.Entity) (models.Entity, error) {
	if !entity.HasID() {
		return nil, ErrMissingID
	}
	if err := checkEncodable(entity); err != nil {
		return nil, err
	}

	entity = entity.Clone()

	c.mu.Lock()
	snapshot := c.load(ctx)
	if i := snapshot.IndexOf(entity.ID()); i >= 0 {
		snapshot[i] = entity
	} else {
		snapshot = append(snapshot, entity)
	}
	c.store(ctx, snapshot)
	c.mu.Unlock()

	pushed := models.Snapshot{entity.Clone()}
	c.dispatch(OpUpsert, entity.ID(), c.engine.policies.Write, func(ctx context.Context) error {
		return c.engine.remote.Upsert(ctx, c.name, pushed)
	})

	return entity.Clone(), nil
}

// Delete removes the entity from the local snapshot and dispatches the remote
// delete in background. There are no tombstones: if the remote delete fails,
// a later merged read brings the entity back.
func (c *Collection) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	c.mu.Lock()
	snapshot := c.load(ctx)
	if i := snapshot.IndexOf(id); i >= 0 {
		snapshot = append(snapshot[:i], snapshot[i+1:]...)
		c.store(ctx, snapshot)
	}
	c.mu.Unlock()

	// Удаленное удаление отправляем всегда: запись могла существовать только на сервере
	c.dispatch(OpDelete, id, c.engine.policies.Write, func(ctx context.Context) error {
		return c.engine.remote.Delete(ctx, c.name, id)
	})

	return nil
}

// ForceSync upserts the whole local snapshot to the remote under the bulk
// policy and waits for the outcome. The local store is never modified.
// An empty snapshot is a success without a remote call.
func (c *Collection) ForceSync(ctx context.Context) resilience.Outcome[int] {
	if c.engine.remote == nil {
		return resilience.Outcome[int]{Status: resilience.StatusSoftFailure, Err: ErrNoRemote}
	}

	snapshot := c.Local(ctx)

	var out resilience.Outcome[int]
	if len(snapshot) == 0 {
		out = resilience.Outcome[int]{Status: resilience.StatusSuccess}
	} else {
		out = resilience.Do(ctx, c.engine.policies.Bulk, func(ctx context.Context) (int, error) {
			if err := c.engine.remote.Upsert(ctx, c.name, snapshot); err != nil {
				return 0, err
			}
			return len(snapshot), nil
		})
	}

	c.finish(Event{
		Collection: c.name,
		Op:         OpForceSync,
		Status:     out.Status,
		Err:        out.Err,
		Kind:       remote.KindOf(out.Err),
		Attempts:   out.Attempts,
		Elapsed:    out.Elapsed,
	})

	if out.OK() && c.engine.meta != nil {
		if err := c.engine.meta.SaveLastReconcile(ctx, c.name, c.engine.now()); err != nil {
			c.logger.Warn("Failed to save reconcile time", "error", err)
		}
	}

	return out
}

// dispatch запускает удаленную операцию в фоне под политикой policy
func (c *Collection) dispatch(op Op, id string, policy resilience.Policy, call func(ctx context.Context) error) {
	if c.engine.remote == nil {
		return
	}

	c.stats.dispatched.Add(1)

	started := c.engine.spawn(func(ctx context.Context) {
		out := resilience.Do(ctx, policy, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, call(ctx)
		})

		c.finish(Event{
			Collection: c.name,
			Op:         op,
			EntityID:   id,
			Status:     out.Status,
			Err:        out.Err,
			Kind:       remote.KindOf(out.Err),
			Attempts:   out.Attempts,
			Elapsed:    out.Elapsed,
		})
	})

	if !started {
		c.stats.dispatched.Add(-1)
		c.stats.skipped.Add(1)
		c.logger.Warn("Remote push skipped", "op", op, "id", id, "error", ErrEngineClosed)
	}
}

// finish фиксирует терминальное состояние операции
func (c *Collection) finish(ev Event) {
	if ev.Op != OpForceSync {
		c.stats.record(ev.Status)
	}

	logOutcome(c.logger, ev)

	if c.engine.observer != nil {
		c.engine.observer(ev)
	}
}

// load читает локальный снимок. Вызывается под c.mu.
// При ошибке хранилища или формата используется последний снимок из памяти.
func (c *Collection) load(ctx context.Context) models.Snapshot {
	data, err := c.engine.local.Get(ctx, c.key)
	if err != nil {
		c.logger.Error("Failed to read local snapshot, using in-memory copy", "error", err)
		c.unreadable = true
		return c.cached.Clone()
	}

	snapshot, err := models.DecodeSnapshot(data)
	if err != nil {
		c.logger.Error("Local snapshot is corrupted, using in-memory copy", "error", err)
		c.unreadable = true
		return c.cached.Clone()
	}

	snapshot, dropped := snapshot.Normalize()
	if dropped > 0 {
		c.logger.Warn("Dropped invalid local entities", "count", dropped)
	}

	c.unreadable = false
	c.cached = snapshot
	return snapshot.Clone()
}

// store полностью заменяет локальный снимок. Вызывается под c.mu.
// Ошибка записи только логируется: снимок остается доступным из памяти.
// Нечитаемый снимок не перезаписывается.
func (c *Collection) store(ctx context.Context, snapshot models.Snapshot) {
	c.cached = snapshot.Clone()

	if c.unreadable {
		c.logger.Warn("Local snapshot is unreadable, keeping changes in memory only", "key", c.key)
		return
	}

	data, err := models.EncodeSnapshot(snapshot)
	if err != nil {
		c.logger.Error("Failed to encode local snapshot", "error", err)
		return
	}

	if err := c.engine.local.Set(ctx, c.key, data); err != nil {
		c.logger.Error("Failed to persist local snapshot", "error", err)
	}
}

// checkEncodable проверяет, что сущность сериализуется в JSON.
// Иначе она сделала бы непригодным для записи весь снимок коллекции.
func checkEncodable(e models.Entity) error {
	if _, err := json.Marshal(e); err != nil {
		return fmt.Errorf("entity is not JSON-serializable: %w", err)
	}
	return nil
}
