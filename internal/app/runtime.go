package app

import (
	"context"
	"fmt"

	"github.com/elissongarcia/personal-finance-management/internal/clock"
	"github.com/elissongarcia/personal-finance-management/internal/domain"
	"github.com/elissongarcia/personal-finance-management/internal/eventlog"
	"go.uber.org/zap"
)

// Publisher receives committed records for fan-out to projections and sagas.
// Publishing happens after the append commits and must not block command
// handling.
type Publisher interface {
	Publish(records []eventlog.Record)
}

// Runtime loads an aggregate's history, replays it, validates one command
// against the resulting state and appends the emitted events atomically.
// Commands against different aggregate ids may run in parallel; commands
// against the same id are serialized by the optimistic concurrency check in
// the store, not by a lock.
type Runtime struct {
	store     eventlog.Store
	snaps     eventlog.SnapshotStore
	pub       Publisher
	clock     clock.Clock
	snapEvery int64
	log       *zap.Logger
}

const defaultSnapshotEvery = 5

func NewRuntime(store eventlog.Store, clk clock.Clock, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		store:     store,
		clock:     clk,
		snapEvery: defaultSnapshotEvery,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type RuntimeOption func(*Runtime)

// WithSnapshots enables best-effort snapshotting every n appended events.
func WithSnapshots(snaps eventlog.SnapshotStore, n int64) RuntimeOption {
	return func(r *Runtime) {
		r.snaps = snaps
		if n > 0 {
			r.snapEvery = n
		}
	}
}

// WithPublisher fans committed events out to projections and sagas.
func WithPublisher(p Publisher) RuntimeOption {
	return func(r *Runtime) {
		r.pub = p
	}
}

func WithLogger(log *zap.Logger) RuntimeOption {
	return func(r *Runtime) {
		if log != nil {
			r.log = log
		}
	}
}

// Handle executes one command and returns the events it produced. A rejected
// command produces no events at all; a ConcurrencyConflict means a concurrent
// command won the append and the caller must reload and retry.
func (r *Runtime) Handle(ctx context.Context, cmd domain.Command) ([]domain.Event, error) {
	id := cmd.AggregateID()
	if id == "" {
		return nil, &domain.ValidationError{Rule: "aggregate id is required"}
	}
	kind := domain.KindOf(cmd)
	agg, err := domain.NewAggregate(kind)
	if err != nil {
		return nil, fmt.Errorf("route command %T: %w", cmd, err)
	}

	agg, lastSeq := r.restore(ctx, kind, id, agg)
	snapSeq := lastSeq

	tail, err := r.store.Load(ctx, id, lastSeq+1)
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", kind, id, err)
	}
	for _, rec := range tail {
		e, err := domain.UnmarshalEvent(rec.Kind, rec.Payload)
		if err != nil {
			return nil, fmt.Errorf("replay %s %s at seq %d: %w", kind, id, rec.Seq, err)
		}
		agg.Apply(e)
		lastSeq = rec.Seq
	}

	exists := lastSeq >= 0
	if domain.IsCreation(cmd) && exists {
		return nil, domain.ErrAlreadyExists
	}
	if !domain.IsCreation(cmd) && !exists {
		return nil, domain.ErrNotFound
	}

	events, err := agg.Decide(cmd, r.clock.Now())
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	records := make([]eventlog.Record, len(events))
	for i, e := range events {
		evKind, payload, err := domain.MarshalEvent(e)
		if err != nil {
			return nil, err
		}
		records[i] = eventlog.Record{
			AggregateID: id,
			Seq:         lastSeq + 1 + int64(i),
			Kind:        evKind,
			Payload:     payload,
			Revision:    domain.EventRevision,
			RecordedAt:  e.OccurredAt(),
		}
	}

	if err := r.store.Append(ctx, id, lastSeq+1, records); err != nil {
		return nil, fmt.Errorf("append %s %s: %w", kind, id, err)
	}
	newLast := lastSeq + int64(len(events))

	r.maybeSnapshot(ctx, id, agg, events, snapSeq, newLast)

	if r.pub != nil {
		r.pub.Publish(records)
	}
	return events, nil
}

// Dispatch is the command-bus face of the runtime, used by sagas. The emitted
// events travel via the publisher, so the caller only needs the outcome.
func (r *Runtime) Dispatch(ctx context.Context, cmd domain.Command) error {
	_, err := r.Handle(ctx, cmd)
	return err
}

// restore loads the latest snapshot when one is usable. Snapshot failures are
// logged and fall back to full replay; they never fail the command.
func (r *Runtime) restore(ctx context.Context, kind domain.AggregateKind, id string, empty domain.Aggregate) (domain.Aggregate, int64) {
	if r.snaps == nil {
		return empty, -1
	}
	state, seq, ok, err := r.snaps.Load(ctx, id)
	if err != nil {
		r.log.Warn("snapshot load failed, replaying from zero",
			zap.String("aggregate_id", id), zap.Error(err))
		return empty, -1
	}
	if !ok {
		return empty, -1
	}
	agg, err := domain.UnmarshalSnapshot(kind, state)
	if err != nil {
		r.log.Warn("snapshot unusable, replaying from zero",
			zap.String("aggregate_id", id), zap.Error(err))
		return empty, -1
	}
	return agg, seq
}

func (r *Runtime) maybeSnapshot(ctx context.Context, id string, agg domain.Aggregate, events []domain.Event, snapSeq, newLast int64) {
	if r.snaps == nil || newLast-snapSeq < r.snapEvery {
		return
	}
	for _, e := range events {
		agg.Apply(e)
	}
	state, err := domain.MarshalSnapshot(agg)
	if err != nil {
		r.log.Warn("snapshot marshal failed", zap.String("aggregate_id", id), zap.Error(err))
		return
	}
	if err := r.snaps.Save(ctx, id, newLast, state); err != nil {
		r.log.Warn("snapshot save failed", zap.String("aggregate_id", id), zap.Error(err))
	}
}
