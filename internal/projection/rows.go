// Package projection keeps denormalized read models eventually consistent
// with the event log. Rows are query-optimized, overwritten in place and
// never authoritative.
package projection

import "time"

type TenantRow struct {
	TenantID  string
	Name      string
	Domain    string
	Email     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AccountRow struct {
	AccountID     string
	Name          string
	Type          string
	BalanceCents  int64
	Currency      string
	AccountNumber string
	Institution   string
	Status        string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type TransactionRow struct {
	TransactionID string
	AccountID     string
	Description   string
	AmountCents   int64
	Type          string
	Category      string
	Date          time.Time
	ScheduledDate *time.Time
	Status        string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
