package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotStore keeps the latest materialized state per aggregate. It is an
// optimization only; callers must fall back to full replay when a snapshot
// is missing or unreadable.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

func (s *SnapshotStore) Save(ctx context.Context, aggregateID string, seq int64, state []byte) error {
	const stmt = `
INSERT INTO snapshots (aggregate_id, seq, state, taken_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (aggregate_id) DO UPDATE
SET seq = EXCLUDED.seq, state = EXCLUDED.state, taken_at = EXCLUDED.taken_at
WHERE snapshots.seq < EXCLUDED.seq`

	if _, err := s.pool.Exec(ctx, stmt, aggregateID, seq, state); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, aggregateID string) ([]byte, int64, bool, error) {
	const query = `SELECT state, seq FROM snapshots WHERE aggregate_id = $1`

	var (
		state []byte
		seq   int64
	)
	err := s.pool.QueryRow(ctx, query, aggregateID).Scan(&state, &seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("load snapshot: %w", err)
	}
	return state, seq, true, nil
}
