package sync

import (
	"sync/atomic"
	"time"

	"github.com/iudanet/octosync/internal/client/remote"
	"github.com/iudanet/octosync/internal/resilience"
)

// Op - вид удаленной операции
type Op string

const (
	OpInsert    Op = "insert"
	OpUpsert    Op = "upsert"
	OpDelete    Op = "delete"
	OpForceSync Op = "force_sync"
)

// Event describes a remote operation that reached a terminal state:
// RemoteConfirmed, RemoteSoftFailed or RemoteTimedOut.
type Event struct {
	Err        error
	Collection string
	Op         Op
	EntityID   string // пусто для OpForceSync
	Kind       remote.Kind
	Status     resilience.Status
	Attempts   int
	Elapsed    time.Duration
}

// Observer получает каждое терминальное событие. Вызывается из фоновой горутины,
// поэтому должен быть потокобезопасным и не блокироваться надолго.
type Observer func(Event)

// Stats - счетчики фоновых операций коллекции
type Stats struct {
	Dispatched int64 // запущено фоновых отправок
	Confirmed  int64
	SoftFailed int64
	TimedOut   int64
	Skipped    int64 // не запущены: движок остановлен
}

// InFlight возвращает число отправок, еще не достигших терминального состояния
func (s Stats) InFlight() int64 {
	return s.Dispatched - s.Confirmed - s.SoftFailed - s.TimedOut
}

type counters struct {
	dispatched atomic.Int64
	confirmed  atomic.Int64
	softFailed atomic.Int64
	timedOut   atomic.Int64
	skipped    atomic.Int64
}

func (c *counters) record(status resilience.Status) {
	switch status {
	case resilience.StatusSuccess:
		c.confirmed.Add(1)
	case resilience.StatusTimeout:
		c.timedOut.Add(1)
	default:
		c.softFailed.Add(1)
	}
}

func (c *counters) snapshot() Stats {
	return Stats{
		Dispatched: c.dispatched.Load(),
		Confirmed:  c.confirmed.Load(),
		SoftFailed: c.softFailed.Load(),
		TimedOut:   c.timedOut.Load(),
		Skipped:    c.skipped.Load(),
	}
}
