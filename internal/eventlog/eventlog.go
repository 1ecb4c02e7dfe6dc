// Package eventlog defines the append-only event log every other component
// relies on: the durable record shape, the store contracts and the failure
// vocabulary shared by all store implementations.
package eventlog

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrConcurrencyConflict means the expected sequence was stale: a
	// concurrent writer advanced the aggregate first. The caller must
	// reload and retry; the store never retries on its own.
	ErrConcurrencyConflict = errors.New("concurrency conflict: expected sequence is stale")

	// ErrStoreUnavailable wraps transient infrastructure faults. The whole
	// read-modify-append cycle is safe to retry.
	ErrStoreUnavailable = errors.New("event store unavailable")

	// ErrCorruption means a sequence gap was detected. The aggregate must
	// be refused service rather than replayed past the gap.
	ErrCorruption = errors.New("event log corrupted: sequence gap")
)

// Record is one durable event row. Sequence numbers are 0-based and gapless
// within an aggregate.
type Record struct {
	AggregateID string
	Seq         int64
	Kind        string
	Payload     []byte
	Revision    string
	RecordedAt  time.Time
}

// Store is the single shared mutable resource of the system. Only the
// aggregate runtime appends to it.
type Store interface {
	// Append writes the batch atomically. expectedSeq is the sequence the
	// first new record must receive; if the aggregate has advanced past
	// it, Append fails with ErrConcurrencyConflict and writes nothing.
	Append(ctx context.Context, aggregateID string, expectedSeq int64, records []Record) error

	// Load returns all records with Seq >= fromSeq in sequence order. A
	// fresh call re-reads from fromSeq; the result is not a one-shot
	// cursor. A gap in the returned range fails with ErrCorruption.
	Load(ctx context.Context, aggregateID string, fromSeq int64) ([]Record, error)
}

// SnapshotStore persists derived aggregate state. Snapshots are an
// optimization only: every implementation may fail or lag without affecting
// correctness.
type SnapshotStore interface {
	Save(ctx context.Context, aggregateID string, seq int64, state []byte) error
	// Load returns the latest snapshot, or ok=false when none exists.
	Load(ctx context.Context, aggregateID string) (state []byte, seq int64, ok bool, err error)
}

// CheckSequence verifies records are gapless and strictly increasing from
// fromSeq. Store implementations call it before handing records to callers.
func CheckSequence(records []Record, fromSeq int64) error {
	next := fromSeq
	for _, r := range records {
		if r.Seq != next {
			return ErrCorruption
		}
		next++
	}
	return nil
}
