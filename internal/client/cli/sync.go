package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/octosync/internal/client/sync"
)

// runSync принудительно отправляет локальные снимки коллекций на удаленную сторону
func (c *Cli) runSync(ctx context.Context, args []string) error {
	collections, err := collectionsOrAll(args)
	if err != nil {
		return err
	}
	if !c.engine.HasRemote() {
		return fmt.Errorf("remote is not configured: %w", sync.ErrNoRemote)
	}

	var opts []sync.ReconcilerOption
	if c.concurrency > 0 {
		opts = append(opts, sync.WithConcurrency(c.concurrency))
	}

	report := sync.NewReconciler(c.engine, collections, c.logger, opts...).ForceSyncAll(ctx)
	if err := RenderReport(c.io, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if !report.OK() {
		return fmt.Errorf("synchronization failed for %d collection(s)", len(report.Failed()))
	}
	return nil
}

// runStatus печатает размер локальных снимков и время последней синхронизации
func (c *Cli) runStatus(ctx context.Context, args []string) error {
	collections, err := collectionsOrAll(args)
	if err != nil {
		return err
	}

	status := Status{Remote: c.remote}
	for _, name := range collections {
		row := CollectionStatus{
			Name:  name,
			Local: len(c.engine.Collection(name).Local(ctx)),
		}
		if c.meta != nil {
			last, err := c.meta.GetLastReconcile(ctx, name)
			if err != nil {
				c.logger.Warn("Failed to read reconcile time", "collection", name, "error", err)
			}
			row.LastSync = last
		}
		status.Collections = append(status.Collections, row)
	}

	return RenderStatus(c.io, status)
}

// runWatch повторяет синхронизацию каждые interval до отмены ctx
func (c *Cli) runWatch(ctx context.Context, args []string, interval time.Duration) error {
	collections, err := collectionsOrAll(args)
	if err != nil {
		return err
	}
	if !c.engine.HasRemote() {
		return fmt.Errorf("remote is not configured: %w", sync.ErrNoRemote)
	}

	var opts []sync.ReconcilerOption
	if c.concurrency > 0 {
		opts = append(opts, sync.WithConcurrency(c.concurrency))
	}
	opts = append(opts, sync.WithReportHandler(func(report *sync.Report) {
		c.io.Printf("--- %s\n", report.StartedAt.UTC().Format(time.RFC3339))
		if err := RenderReport(c.io, report); err != nil {
			c.logger.Error("Failed to render report", "error", err)
		}
	}))

	return sync.NewReconciler(c.engine, collections, c.logger, opts...).Run(ctx, interval)
}
