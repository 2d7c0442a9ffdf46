// Package sync implements the local-first synchronization engine.
//
// Every write is applied to the durable local store on the caller's goroutine
// and returned immediately; the matching remote call runs in the background
// under the resilience policies and its outcome is only logged and counted.
// Reads merge the local snapshot with a fresh remote snapshot, remote wins.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/octosync/internal/client/remote"
	"github.com/iudanet/octosync/internal/client/storage"
	"github.com/iudanet/octosync/internal/resilience"
)

// Engine owns the per-collection synchronizers and the lifetime of their
// background remote calls.
type Engine struct {
	ctx         context.Context
	local       storage.LocalStore
	remote      remote.Client
	meta        storage.MetadataStorage
	logger      *slog.Logger
	cancel      context.CancelFunc
	observer    Observer
	now         func() time.Time
	newID       func() string
	collections map[string]*Collection
	app         string
	policies    resilience.Policies
	wg          sync.WaitGroup
	mu          sync.Mutex
	closed      bool
}

// Option настраивает Engine
type Option func(*Engine)

// WithApp задает префикс ключей локального хранилища
func WithApp(app string) Option {
	return func(e *Engine) { e.app = app }
}

// WithPolicies задает таймауты и политику повторов удаленных вызовов
func WithPolicies(p resilience.Policies) Option {
	return func(e *Engine) { e.policies = p }
}

// WithMetadata включает учет времени последней успешной синхронизации
func WithMetadata(meta storage.MetadataStorage) Option {
	return func(e *Engine) { e.meta = meta }
}

// WithObserver подписывает observer на терминальные события удаленных операций
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithClock подменяет источник времени (используется в тестах)
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов новых сущностей
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// NewEngine creates a synchronization engine.
// client may be nil: the engine then works purely locally and ForceSync
// reports ErrNoRemote.
func NewEngine(local storage.LocalStore, client remote.Client, logger *slog.Logger, opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		ctx:         ctx,
		cancel:      cancel,
		local:       local,
		remote:      client,
		logger:      logger,
		app:         storage.DefaultApp,
		policies:    resilience.DefaultPolicies(remote.IsRetryable),
		now:         time.Now,
		newID:       uuid.NewString,
		collections: make(map[string]*Collection),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Collection returns the synchronizer of the named collection.
// The same instance is returned for the same name, so local
// read-modify-write cycles of one collection are serialized.
func (e *Engine) Collection(name string) *Collection {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.collections[name]; ok {
		return c
	}

	c := &Collection{
		engine: e,
		name:   name,
		key:    storage.SnapshotKey(e.app, name),
		logger: e.logger.With("collection", name),
	}
	e.collections[name] = c

	return c
}

// HasRemote сообщает, настроено ли удаленное хранилище
func (e *Engine) HasRemote() bool {
	return e.remote != nil
}

// Shutdown stops accepting background work and waits for in-flight remote
// calls to finish. When ctx expires first the remaining calls are canceled
// and ctx.Err() is returned after they have observed the cancellation.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.cancel()
		return nil
	case <-ctx.Done():
		e.logger.Warn("Shutdown deadline reached, abandoning background remote calls")
		e.cancel()
		<-done
		return ctx.Err()
	}
}

// Close abandons all in-flight background calls without waiting
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.cancel()
}

// spawn запускает фоновую задачу, привязанную к контексту движка.
// Возвращает false, если движок уже остановлен.
func (e *Engine) spawn(task func(ctx context.Context)) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	// Add под мьютексом: Shutdown не начнет Wait, пока мы не зарегистрировали задачу
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		task(e.ctx)
	}()

	return true
}

// logOutcome пишет терминальное состояние удаленной операции в лог
func logOutcome(logger *slog.Logger, ev Event) {
	attrs := []any{
		"op", ev.Op,
		"status", ev.Status.String(),
		"attempts", ev.Attempts,
		"elapsed", ev.Elapsed,
	}
	if ev.EntityID != "" {
		attrs = append(attrs, "id", ev.EntityID)
	}

	switch ev.Status {
	case resilience.StatusSuccess:
		logger.Info("Remote operation confirmed", attrs...)
	case resilience.StatusTimeout:
		logger.Error("Remote operation timed out", attrs...)
	default:
		attrs = append(attrs, "kind", ev.Kind, "error", ev.Err)
		if errors.Is(ev.Err, context.Canceled) {
			logger.Warn("Remote operation canceled", attrs...)
			return
		}
		logger.Warn("Remote operation failed", attrs...)
	}
}
