package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/elissongarcia/personal-finance-management/internal/projection"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountReadRepository struct {
	pool *pgxpool.Pool
}

func NewAccountReadRepository(pool *pgxpool.Pool) *AccountReadRepository {
	return &AccountReadRepository{pool: pool}
}

func (r *AccountReadRepository) Save(ctx context.Context, row projection.AccountRow) error {
	const stmt = `
INSERT INTO account_reads (account_id, name, type, balance_cents, currency, account_number, institution, status, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (account_id) DO UPDATE
SET name = EXCLUDED.name,
    type = EXCLUDED.type,
    balance_cents = EXCLUDED.balance_cents,
    currency = EXCLUDED.currency,
    account_number = EXCLUDED.account_number,
    institution = EXCLUDED.institution,
    status = EXCLUDED.status,
    notes = EXCLUDED.notes,
    created_at = EXCLUDED.created_at,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.pool.Exec(ctx, stmt,
		row.AccountID, row.Name, row.Type, row.BalanceCents, row.Currency,
		row.AccountNumber, row.Institution, row.Status, row.Notes, row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return fmt.Errorf("save account read: %w", err)
	}
	return nil
}

const accountReadColumns = `account_id, name, type, balance_cents, currency, account_number, institution, status, notes, created_at, updated_at`

func (r *AccountReadRepository) Get(ctx context.Context, accountID string) (*projection.AccountRow, error) {
	query := `SELECT ` + accountReadColumns + ` FROM account_reads WHERE account_id = $1`

	var row projection.AccountRow
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&row.AccountID, &row.Name, &row.Type, &row.BalanceCents, &row.Currency,
		&row.AccountNumber, &row.Institution, &row.Status, &row.Notes, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account read: %w", err)
	}
	return &row, nil
}

func (r *AccountReadRepository) List(ctx context.Context) ([]projection.AccountRow, error) {
	query := `SELECT ` + accountReadColumns + ` FROM account_reads ORDER BY name, account_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list account reads: %w", err)
	}
	defer rows.Close()

	var out []projection.AccountRow
	for rows.Next() {
		var row projection.AccountRow
		if err := rows.Scan(
			&row.AccountID, &row.Name, &row.Type, &row.BalanceCents, &row.Currency,
			&row.AccountNumber, &row.Institution, &row.Status, &row.Notes, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account read: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list account reads: %w", err)
	}
	return out, nil
}
