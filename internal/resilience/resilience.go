// Package resilience runs remote operations under a timeout budget with a
// bounded linear-backoff retry policy and reports the result as a value.
//
// Do never panics and never returns an error: every result, including a
// panic inside the operation, is reported through Outcome.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrPanic оборачивает panic, перехваченную внутри операции. Такие ошибки не повторяются.
var ErrPanic = errors.New("operation panicked")

// Status - итог удаленной операции
type Status int

const (
	// StatusSuccess операция завершилась без ошибки до истечения дедлайна
	StatusSuccess Status = iota
	// StatusSoftFailure попытки исчерпаны или ошибка не подлежит повтору
	StatusSoftFailure
	// StatusTimeout дедлайн истек раньше, чем операция завершилась
	StatusTimeout
)

// String returns the status name used in logs and reports
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSoftFailure:
		return "soft_failure"
	case StatusTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Operation is a remote call bound to the context it receives
type Operation[T any] func(ctx context.Context) (T, error)

// Outcome describes how an operation ended
type Outcome[T any] struct {
	Value    T
	Err      error // последняя ошибка; nil при StatusSuccess
	Status   Status
	Attempts int
	Elapsed  time.Duration
}

// OK reports whether the operation succeeded
func (o Outcome[T]) OK() bool {
	return o.Status == StatusSuccess
}

// Do executes op racing against p.Timeout.
// Retryable errors are retried after Backoff*attempt until MaxAttempts is
// reached. When the deadline expires first Do returns StatusTimeout right away;
// the in-flight call keeps running only until it observes its canceled context.
func Do[T any](ctx context.Context, p Policy, op Operation[T]) Outcome[T] {
	p = p.normalize()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}

	var attempts atomic.Int32
	done := make(chan result, 1)

	go func() {
		var value T
		err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
			attempts.Add(1)

			v, err := invoke(ctx, op)
			if err != nil {
				if p.shouldRetry(err) {
					return retry.RetryableError(err)
				}
				return err
			}

			value = v
			return nil
		})
		done <- result{value: value, err: err}
	}()

	var out Outcome[T]

	select {
	case res := <-done:
		switch {
		case res.err == nil:
			out.Status = StatusSuccess
			out.Value = res.value
		case errors.Is(res.err, context.DeadlineExceeded):
			out.Status = StatusTimeout
			out.Err = res.err
		default:
			out.Status = StatusSoftFailure
			out.Err = res.err
		}
	case <-ctx.Done():
		out.Err = ctx.Err()
		out.Status = StatusSoftFailure
		if errors.Is(out.Err, context.DeadlineExceeded) {
			out.Status = StatusTimeout
		}
	}

	out.Attempts = int(attempts.Load())
	out.Elapsed = time.Since(start)

	return out
}

// invoke вызывает операцию, превращая panic в ошибку
func invoke[T any](ctx context.Context, op Operation[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return op(ctx)
}
