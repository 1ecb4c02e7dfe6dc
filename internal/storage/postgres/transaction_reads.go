package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/elissongarcia/personal-finance-management/internal/projection"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionReadRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionReadRepository(pool *pgxpool.Pool) *TransactionReadRepository {
	return &TransactionReadRepository{pool: pool}
}

func (r *TransactionReadRepository) Save(ctx context.Context, row projection.TransactionRow) error {
	const stmt = `
INSERT INTO transaction_reads (transaction_id, account_id, description, amount_cents, type, category, date, scheduled_date, status, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (transaction_id) DO UPDATE
SET account_id = EXCLUDED.account_id,
    description = EXCLUDED.description,
    amount_cents = EXCLUDED.amount_cents,
    type = EXCLUDED.type,
    category = EXCLUDED.category,
    date = EXCLUDED.date,
    scheduled_date = EXCLUDED.scheduled_date,
    status = EXCLUDED.status,
    notes = EXCLUDED.notes,
    created_at = EXCLUDED.created_at,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.pool.Exec(ctx, stmt,
		row.TransactionID, row.AccountID, row.Description, row.AmountCents, row.Type,
		row.Category, row.Date, row.ScheduledDate, row.Status, row.Notes, row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return fmt.Errorf("save transaction read: %w", err)
	}
	return nil
}

const transactionReadColumns = `transaction_id, account_id, description, amount_cents, type, category, date, scheduled_date, status, notes, created_at, updated_at`

func (r *TransactionReadRepository) Get(ctx context.Context, transactionID string) (*projection.TransactionRow, error) {
	query := `SELECT ` + transactionReadColumns + ` FROM transaction_reads WHERE transaction_id = $1`

	var row projection.TransactionRow
	err := r.pool.QueryRow(ctx, query, transactionID).Scan(
		&row.TransactionID, &row.AccountID, &row.Description, &row.AmountCents, &row.Type,
		&row.Category, &row.Date, &row.ScheduledDate, &row.Status, &row.Notes, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction read: %w", err)
	}
	return &row, nil
}

func (r *TransactionReadRepository) ListByAccount(ctx context.Context, accountID string) ([]projection.TransactionRow, error) {
	query := `SELECT ` + transactionReadColumns + `
FROM transaction_reads
WHERE account_id = $1
ORDER BY date DESC, transaction_id`
	return r.many(ctx, query, accountID)
}

func (r *TransactionReadRepository) ListByAccountAndStatus(ctx context.Context, accountID, status string) ([]projection.TransactionRow, error) {
	query := `SELECT ` + transactionReadColumns + `
FROM transaction_reads
WHERE account_id = $1 AND status = $2
ORDER BY date DESC, transaction_id`
	return r.many(ctx, query, accountID, status)
}

func (r *TransactionReadRepository) Search(ctx context.Context, accountID, term string) ([]projection.TransactionRow, error) {
	query := `SELECT ` + transactionReadColumns + `
FROM transaction_reads
WHERE account_id = $1 AND (description ILIKE '%' || $2 || '%' OR notes ILIKE '%' || $2 || '%')
ORDER BY date DESC, transaction_id`
	return r.many(ctx, query, accountID, term)
}

func (r *TransactionReadRepository) many(ctx context.Context, query string, args ...any) ([]projection.TransactionRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transaction reads: %w", err)
	}
	defer rows.Close()

	var out []projection.TransactionRow
	for rows.Next() {
		var row projection.TransactionRow
		if err := rows.Scan(
			&row.TransactionID, &row.AccountID, &row.Description, &row.AmountCents, &row.Type,
			&row.Category, &row.Date, &row.ScheduledDate, &row.Status, &row.Notes, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction read: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transaction reads: %w", err)
	}
	return out, nil
}
