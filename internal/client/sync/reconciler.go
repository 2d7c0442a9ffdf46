package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/octosync/internal/models"
	"github.com/iudanet/octosync/internal/resilience"
)

// CollectionResult - итог принудительной синхронизации одной коллекции
type CollectionResult struct {
	Err        error
	Collection string
	Status     resilience.Status
	Records    int
	Attempts   int
	Elapsed    time.Duration
}

// Report aggregates force sync results across collections.
// Err combines the errors of every failed collection and is nil on success.
type Report struct {
	StartedAt time.Time
	Err       error
	Results   []CollectionResult
	Elapsed   time.Duration
}

// OK сообщает, что все коллекции синхронизированы успешно
func (r *Report) OK() bool {
	return r.Err == nil
}

// Failed возвращает результаты коллекций, синхронизация которых не удалась
func (r *Report) Failed() []CollectionResult {
	var failed []CollectionResult
	for _, res := range r.Results {
		if res.Status != resilience.StatusSuccess {
			failed = append(failed, res)
		}
	}
	return failed
}

// Reconciler fans out ForceSync over a fixed set of collections
type Reconciler struct {
	engine      *Engine
	logger      *slog.Logger
	onReport    func(*Report)
	collections []string
	concurrency int
}

// ReconcilerOption настраивает Reconciler
type ReconcilerOption func(*Reconciler)

// WithConcurrency ограничивает число одновременно синхронизируемых коллекций (0 - без ограничения)
func WithConcurrency(n int) ReconcilerOption {
	return func(r *Reconciler) { r.concurrency = n }
}

// WithReportHandler вызывается после каждого прохода Run
func WithReportHandler(fn func(*Report)) ReconcilerOption {
	return func(r *Reconciler) { r.onReport = fn }
}

// NewReconciler creates a reconciler for collections.
// An empty list means the whole collection catalogue. Duplicates are ignored.
func NewReconciler(engine *Engine, collections []string, logger *slog.Logger, opts ...ReconcilerOption) *Reconciler {
	if len(collections) == 0 {
		collections = models.Collections()
	}

	seen := make(map[string]struct{}, len(collections))
	unique := make([]string, 0, len(collections))
	for _, name := range collections {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}

	if logger == nil {
		logger = engine.logger
	}

	r := &Reconciler{
		engine:      engine,
		logger:      logger,
		collections: unique,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Collections возвращает список синхронизируемых коллекций
func (r *Reconciler) Collections() []string {
	out := make([]string, len(r.collections))
	copy(out, r.collections)
	return out
}

// ForceSyncAll runs ForceSync for every collection concurrently.
// A failure of one collection never stops the others.
func (r *Reconciler) ForceSyncAll(ctx context.Context) *Report {
	report := &Report{
		StartedAt: time.Now(),
		Results:   make([]CollectionResult, len(r.collections)),
	}

	r.logger.Info("Starting reconciliation", "collections", len(r.collections))

	// Ошибки коллекций не возвращаем в errgroup: иначе Wait скрыл бы все, кроме первой
	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}

	for i, name := range r.collections {
		g.Go(func() error {
			out := r.engine.Collection(name).ForceSync(ctx)
			report.Results[i] = CollectionResult{
				Collection: name,
				Status:     out.Status,
				Records:    out.Value,
				Attempts:   out.Attempts,
				Err:        out.Err,
				Elapsed:    out.Elapsed,
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range report.Results {
		if res.Status != resilience.StatusSuccess {
			report.Err = multierr.Append(report.Err, fmt.Errorf("%s: %s: %w", res.Collection, res.Status, res.Err))
		}
	}
	report.Elapsed = time.Since(report.StartedAt)

	if report.OK() {
		r.logger.Info("Reconciliation completed", "collections", len(report.Results), "elapsed", report.Elapsed)
	} else {
		r.logger.Warn("Reconciliation partially failed",
			"failed", len(report.Failed()),
			"collections", len(report.Results),
			"error", report.Err)
	}

	return report
}

// Run reconciles immediately and then every interval until ctx is canceled.
// Returns nil when ctx is canceled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("reconcile interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report := r.ForceSyncAll(ctx)
		if r.onReport != nil {
			r.onReport(report)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
