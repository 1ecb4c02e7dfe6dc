package postgres

import (
	"context"
	"fmt"

	"github.com/elissongarcia/personal-finance-management/internal/eventlog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventStore is the durable append-only log. Rows are keyed by
// (aggregate_id, seq); the primary key doubles as the optimistic concurrency
// check, so a losing concurrent writer hits a unique violation.
type EventStore struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

func (s *EventStore) Append(ctx context.Context, aggregateID string, expectedSeq int64, records []eventlog.Record) error {
	if len(records) == 0 {
		return nil
	}
	err := withTx(ctx, s.pool, func(txCtx context.Context) error {
		var next int64
		err := s.queryRow(txCtx,
			`SELECT COALESCE(MAX(seq) + 1, 0) FROM events WHERE aggregate_id = $1`,
			aggregateID,
		).Scan(&next)
		if err != nil {
			return fmt.Errorf("read head seq: %w", err)
		}
		if next != expectedSeq {
			return eventlog.ErrConcurrencyConflict
		}

		const stmt = `
INSERT INTO events (aggregate_id, seq, kind, payload, revision, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6)`

		for _, rec := range records {
			if _, err := s.exec(txCtx, stmt,
				rec.AggregateID,
				rec.Seq,
				rec.Kind,
				rec.Payload,
				rec.Revision,
				rec.RecordedAt,
			); err != nil {
				if isUniqueViolation(err) {
					return eventlog.ErrConcurrencyConflict
				}
				return fmt.Errorf("insert event seq %d: %w", rec.Seq, err)
			}
		}
		return nil
	})
	if err != nil && isUnavailable(err) {
		return fmt.Errorf("append events: %w: %w", eventlog.ErrStoreUnavailable, err)
	}
	return err
}

func (s *EventStore) Load(ctx context.Context, aggregateID string, fromSeq int64) ([]eventlog.Record, error) {
	if fromSeq < 0 {
		fromSeq = 0
	}
	const query = `
SELECT aggregate_id, seq, kind, payload, revision, recorded_at
FROM events
WHERE aggregate_id = $1 AND seq >= $2
ORDER BY seq`

	rows, err := s.query(ctx, query, aggregateID, fromSeq)
	if err != nil {
		if isUnavailable(err) {
			return nil, fmt.Errorf("load events: %w: %w", eventlog.ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var out []eventlog.Record
	for rows.Next() {
		var rec eventlog.Record
		if err := rows.Scan(&rec.AggregateID, &rec.Seq, &rec.Kind, &rec.Payload, &rec.Revision, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		if isUnavailable(err) {
			return nil, fmt.Errorf("load events: %w: %w", eventlog.ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("load events: %w", err)
	}
	if err := eventlog.CheckSequence(out, fromSeq); err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", aggregateID, err)
	}
	return out, nil
}

func (s *EventStore) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return s.pool.Exec(ctx, sql, args...)
}

func (s *EventStore) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return s.pool.QueryRow(ctx, sql, args...)
}

func (s *EventStore) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return s.pool.Query(ctx, sql, args...)
}
