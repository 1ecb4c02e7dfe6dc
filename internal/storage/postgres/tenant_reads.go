package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/elissongarcia/personal-finance-management/internal/projection"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantReadRepository stores the denormalized tenant view. Save upserts the
// whole row keyed by tenant id, so replays are idempotent.
type TenantReadRepository struct {
	pool *pgxpool.Pool
}

func NewTenantReadRepository(pool *pgxpool.Pool) *TenantReadRepository {
	return &TenantReadRepository{pool: pool}
}

func (r *TenantReadRepository) Save(ctx context.Context, row projection.TenantRow) error {
	const stmt = `
INSERT INTO tenant_reads (tenant_id, name, domain, email, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (tenant_id) DO UPDATE
SET name = EXCLUDED.name,
    domain = EXCLUDED.domain,
    email = EXCLUDED.email,
    status = EXCLUDED.status,
    created_at = EXCLUDED.created_at,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.pool.Exec(ctx, stmt,
		row.TenantID, row.Name, row.Domain, row.Email, row.Status, row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return fmt.Errorf("save tenant read: %w", err)
	}
	return nil
}

const tenantReadColumns = `tenant_id, name, domain, email, status, created_at, updated_at`

func (r *TenantReadRepository) Get(ctx context.Context, tenantID string) (*projection.TenantRow, error) {
	query := `SELECT ` + tenantReadColumns + ` FROM tenant_reads WHERE tenant_id = $1`
	return r.one(ctx, query, tenantID)
}

func (r *TenantReadRepository) GetByDomain(ctx context.Context, domainName string) (*projection.TenantRow, error) {
	query := `SELECT ` + tenantReadColumns + ` FROM tenant_reads WHERE domain = $1`
	return r.one(ctx, query, domainName)
}

func (r *TenantReadRepository) List(ctx context.Context) ([]projection.TenantRow, error) {
	query := `SELECT ` + tenantReadColumns + ` FROM tenant_reads ORDER BY name, tenant_id`
	return r.many(ctx, query)
}

func (r *TenantReadRepository) ListByStatus(ctx context.Context, status string) ([]projection.TenantRow, error) {
	query := `SELECT ` + tenantReadColumns + ` FROM tenant_reads WHERE status = $1 ORDER BY name, tenant_id`
	return r.many(ctx, query, status)
}

func (r *TenantReadRepository) SearchByName(ctx context.Context, name string) ([]projection.TenantRow, error) {
	query := `SELECT ` + tenantReadColumns + ` FROM tenant_reads WHERE name ILIKE '%' || $1 || '%' ORDER BY name, tenant_id`
	return r.many(ctx, query, name)
}

func (r *TenantReadRepository) one(ctx context.Context, query string, args ...any) (*projection.TenantRow, error) {
	var row projection.TenantRow
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&row.TenantID, &row.Name, &row.Domain, &row.Email, &row.Status, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant read: %w", err)
	}
	return &row, nil
}

func (r *TenantReadRepository) many(ctx context.Context, query string, args ...any) ([]projection.TenantRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tenant reads: %w", err)
	}
	defer rows.Close()

	var out []projection.TenantRow
	for rows.Next() {
		var row projection.TenantRow
		if err := rows.Scan(&row.TenantID, &row.Name, &row.Domain, &row.Email, &row.Status, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant read: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tenant reads: %w", err)
	}
	return out, nil
}
