package bus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/elissongarcia/personal-finance-management/internal/eventlog"
)

type recordingSubscriber struct {
	mu   sync.Mutex
	name string
	seen []eventlog.Record
	fail int // fail this many deliveries before succeeding
}

func (s *recordingSubscriber) Name() string { return s.name }

func (s *recordingSubscriber) HandleRecord(ctx context.Context, rec eventlog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail > 0 {
		s.fail--
		return errors.New("transient failure")
	}
	s.seen = append(s.seen, rec)
	return nil
}

func (s *recordingSubscriber) records() []eventlog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]eventlog.Record, len(s.seen))
	copy(out, s.seen)
	return out
}

func rec(id string, seq int64) eventlog.Record {
	return eventlog.Record{AggregateID: id, Seq: seq, Kind: "tenant.created", Payload: []byte(`{}`)}
}

func TestDispatcher_DeliversInPublishOrder(t *testing.T) {
	t.Parallel()

	sub := &recordingSubscriber{name: "recorder"}
	d := NewDispatcher(nil)
	d.Subscribe(sub)
	d.Start()

	d.Publish([]eventlog.Record{rec("t-1", 0), rec("t-1", 1)})
	d.Publish([]eventlog.Record{rec("t-1", 2)})
	d.Publish([]eventlog.Record{rec("t-2", 0)})
	d.Drain()
	d.Stop()

	seen := sub.records()
	if len(seen) != 4 {
		t.Fatalf("expected 4 records, got %d", len(seen))
	}
	var lastSeq int64 = -1
	for _, r := range seen {
		if r.AggregateID != "t-1" {
			continue
		}
		if r.Seq != lastSeq+1 {
			t.Fatalf("t-1 delivered out of order: seq %d after %d", r.Seq, lastSeq)
		}
		lastSeq = r.Seq
	}
	if lastSeq != 2 {
		t.Fatalf("expected t-1 to reach seq 2, got %d", lastSeq)
	}
}

func TestDispatcher_RedeliversUntilSuccess(t *testing.T) {
	t.Parallel()

	sub := &recordingSubscriber{name: "flaky", fail: 2}
	d := NewDispatcher(nil, WithRedelivery(3, time.Millisecond))
	d.Subscribe(sub)
	d.Start()

	d.Publish([]eventlog.Record{rec("t-1", 0)})
	d.Drain()
	d.Stop()

	if got := len(sub.records()); got != 1 {
		t.Fatalf("expected delivery after retries, got %d records", got)
	}
}

func TestDispatcher_GivesUpAfterAttempts(t *testing.T) {
	t.Parallel()

	poisoned := &recordingSubscriber{name: "poisoned", fail: 100}
	healthy := &recordingSubscriber{name: "healthy"}
	d := NewDispatcher(nil, WithRedelivery(2, time.Millisecond))
	d.Subscribe(poisoned)
	d.Subscribe(healthy)
	d.Start()

	d.Publish([]eventlog.Record{rec("t-1", 0), rec("t-1", 1)})
	d.Drain()
	d.Stop()

	// One wedged subscriber must not stall the queue or its peers.
	if got := len(healthy.records()); got != 2 {
		t.Fatalf("expected healthy subscriber to see 2 records, got %d", got)
	}
	if got := len(poisoned.records()); got != 0 {
		t.Fatalf("expected poisoned subscriber to deliver nothing, got %d", got)
	}
}

// republisher publishes a follow-up record from inside a delivery, the way a
// saga dispatching a command does.
type republisher struct {
	d    *Dispatcher
	once sync.Once
}

func (r *republisher) Name() string { return "republisher" }

func (r *republisher) HandleRecord(ctx context.Context, record eventlog.Record) error {
	r.once.Do(func() {
		r.d.Publish([]eventlog.Record{rec("t-1", record.Seq + 1)})
	})
	return nil
}

func TestDispatcher_ReentrantPublishDoesNotDeadlock(t *testing.T) {
	t.Parallel()

	sub := &recordingSubscriber{name: "recorder"}
	d := NewDispatcher(nil)
	re := &republisher{d: d}
	d.Subscribe(re)
	d.Subscribe(sub)
	d.Start()

	d.Publish([]eventlog.Record{rec("t-1", 0)})

	done := make(chan struct{})
	go func() {
		d.Drain()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("drain deadlocked on re-entrant publish")
	}
	d.Stop()

	if got := len(sub.records()); got != 2 {
		t.Fatalf("expected the follow-up record to be delivered, got %d records", got)
	}
}
