// Package memory provides mutex-guarded in-memory implementations of the
// store contracts. They back the unit and flow tests and allow running the
// service without external infrastructure.
package memory

import (
	"context"
	"sync"

	"github.com/elissongarcia/personal-finance-management/internal/eventlog"
)

type EventStore struct {
	mu      sync.RWMutex
	streams map[string][]eventlog.Record
}

func NewEventStore() *EventStore {
	return &EventStore{streams: make(map[string][]eventlog.Record)}
}

func (s *EventStore) Append(ctx context.Context, aggregateID string, expectedSeq int64, records []eventlog.Record) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[aggregateID]
	if int64(len(stream)) != expectedSeq {
		return eventlog.ErrConcurrencyConflict
	}
	s.streams[aggregateID] = append(stream, records...)
	return nil
}

func (s *EventStore) Load(ctx context.Context, aggregateID string, fromSeq int64) ([]eventlog.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[aggregateID]
	if fromSeq >= int64(len(stream)) {
		return nil, nil
	}
	if fromSeq < 0 {
		fromSeq = 0
	}
	out := make([]eventlog.Record, len(stream[fromSeq:]))
	copy(out, stream[fromSeq:])
	if err := eventlog.CheckSequence(out, fromSeq); err != nil {
		return nil, err
	}
	return out, nil
}

type snapshot struct {
	state []byte
	seq   int64
}

type SnapshotStore struct {
	mu    sync.RWMutex
	snaps map[string]snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snaps: make(map[string]snapshot)}
}

func (s *SnapshotStore) Save(ctx context.Context, aggregateID string, seq int64, state []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(state))
	copy(buf, state)
	s.snaps[aggregateID] = snapshot{state: buf, seq: seq}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, aggregateID string) ([]byte, int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[aggregateID]
	if !ok {
		return nil, 0, false, nil
	}
	buf := make([]byte, len(snap.state))
	copy(buf, snap.state)
	return buf, snap.seq, true, nil
}
