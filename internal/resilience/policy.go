package resilience

import (
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// Значения по умолчанию для политик
const (
	DefaultLookupTimeout = 5 * time.Second
	DefaultWriteTimeout  = 10 * time.Second
	DefaultBulkTimeout   = 60 * time.Second
	DefaultMaxAttempts   = 3
	DefaultBackoff       = 1200 * time.Millisecond
)

// Policy describes the timeout budget and the retry schedule of one remote call.
type Policy struct {
	// Retryable решает, повторять ли ошибку. nil - повторять любую ошибку.
	Retryable func(error) bool
	// Timeout общий бюджет времени на все попытки вместе с паузами
	Timeout time.Duration
	// Backoff базовая пауза; перед попыткой N+1 ждем Backoff*N
	Backoff time.Duration
	// MaxAttempts максимальное число попыток (минимум 1)
	MaxAttempts int
}

// Policies groups the policies used by the synchronizer per operation weight
type Policies struct {
	Lookup Policy // чтение одной записи
	Write  Policy // запись или удаление одной записи
	Bulk   Policy // чтение всей коллекции и массовая синхронизация
}

// DefaultPolicies returns the budgets observed in production:
// 5s single lookups without retries, 10s single writes and 60s bulk
// operations with three attempts and a 1.2s linear backoff.
func DefaultPolicies(retryable func(error) bool) Policies {
	return Policies{
		Lookup: Policy{
			Timeout:     DefaultLookupTimeout,
			MaxAttempts: 1,
			Retryable:   retryable,
		},
		Write: Policy{
			Timeout:     DefaultWriteTimeout,
			MaxAttempts: DefaultMaxAttempts,
			Backoff:     DefaultBackoff,
			Retryable:   retryable,
		},
		Bulk: Policy{
			Timeout:     DefaultBulkTimeout,
			MaxAttempts: DefaultMaxAttempts,
			Backoff:     DefaultBackoff,
			Retryable:   retryable,
		},
	}
}

func (p Policy) normalize() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultWriteTimeout
	}
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	return p
}

func (p Policy) shouldRetry(err error) bool {
	if errors.Is(err, ErrPanic) {
		return false
	}
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}

// backoff возвращает линейную стратегию: Backoff*1, Backoff*2, ...
// и останавливается после MaxAttempts попыток.
// Next вызывается только из горутины retry.Do, поэтому счетчик не защищен.
func (p Policy) backoff() retry.Backoff {
	var attempt uint64
	maxAttempts := uint64(p.MaxAttempts)

	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		if attempt >= maxAttempts {
			return 0, true
		}
		return p.Backoff * time.Duration(attempt), false
	})
}
