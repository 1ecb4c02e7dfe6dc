// Package bus fans committed events out to projections and sagas. Delivery
// is asynchronous relative to the append that produced the events, ordered
// per aggregate (publish order follows commit order) and at-least-once:
// a failing subscriber is redelivered before the queue moves on.
package bus

import (
	"context"
	"sync"
	"time"

	"github.com/elissongarcia/personal-finance-management/internal/eventlog"
	"go.uber.org/zap"
)

// Subscriber consumes committed records. Handlers must be idempotent;
// redelivery after a partial failure is expected.
type Subscriber interface {
	Name() string
	HandleRecord(ctx context.Context, rec eventlog.Record) error
}

type Dispatcher struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []eventlog.Record
	closed bool

	subs     []Subscriber
	pending  sync.WaitGroup
	done     chan struct{}
	attempts int
	backoff  time.Duration
	log      *zap.Logger
}

const (
	defaultAttempts = 3
	defaultBackoff  = 50 * time.Millisecond
)

func NewDispatcher(log *zap.Logger, opts ...Option) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		done:     make(chan struct{}),
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		log:      log,
	}
	d.cond = sync.NewCond(&d.mu)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type Option func(*Dispatcher)

// WithRedelivery overrides how often a failing subscriber is retried per
// record before the failure is logged and the queue moves on.
func WithRedelivery(attempts int, backoff time.Duration) Option {
	return func(d *Dispatcher) {
		if attempts > 0 {
			d.attempts = attempts
		}
		if backoff >= 0 {
			d.backoff = backoff
		}
	}
}

// Subscribe registers a subscriber. All subscriptions must happen before
// Start.
func (d *Dispatcher) Subscribe(s Subscriber) {
	d.subs = append(d.subs, s)
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	go d.run()
}

// Publish enqueues committed records for delivery. It never blocks the
// append path: the queue is unbounded so a subscriber dispatching follow-up
// commands from inside a delivery cannot deadlock the worker.
func (d *Dispatcher) Publish(records []eventlog.Record) {
	if len(records) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Error("publish after dispatcher stop, records dropped",
			zap.Int("count", len(records)))
		return
	}
	d.pending.Add(len(records))
	d.queue = append(d.queue, records...)
	d.cond.Signal()
}

// Drain blocks until every published record has been delivered.
func (d *Dispatcher) Drain() {
	d.pending.Wait()
}

// Stop waits for the queue to empty, then stops the worker.
func (d *Dispatcher) Stop() {
	d.Drain()
	d.mu.Lock()
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) run() {
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 && d.closed {
			d.mu.Unlock()
			close(d.done)
			return
		}
		rec := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.deliver(rec)
		d.pending.Done()
	}
}

func (d *Dispatcher) deliver(rec eventlog.Record) {
	ctx := context.Background()
	for _, sub := range d.subs {
		var err error
		for attempt := 1; attempt <= d.attempts; attempt++ {
			if err = sub.HandleRecord(ctx, rec); err == nil {
				break
			}
			if attempt < d.attempts {
				time.Sleep(d.backoff)
			}
		}
		if err != nil {
			// Giving up keeps one poisoned record from wedging
			// delivery for every aggregate behind it.
			d.log.Error("subscriber failed after redelivery",
				zap.String("subscriber", sub.Name()),
				zap.String("aggregate_id", rec.AggregateID),
				zap.Int64("seq", rec.Seq),
				zap.String("kind", rec.Kind),
				zap.Error(err),
			)
		}
	}
}
