package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/elissongarcia/personal-finance-management/internal/projection"
)

type TenantReadStore struct {
	mu   sync.RWMutex
	rows map[string]projection.TenantRow
}

func NewTenantReadStore() *TenantReadStore {
	return &TenantReadStore{rows: make(map[string]projection.TenantRow)}
}

func (s *TenantReadStore) Save(ctx context.Context, row projection.TenantRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.TenantID] = row
	return nil
}

func (s *TenantReadStore) Get(ctx context.Context, tenantID string) (*projection.TenantRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[tenantID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *TenantReadStore) GetByDomain(ctx context.Context, domainName string) (*projection.TenantRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.rows {
		if row.Domain == domainName {
			r := row
			return &r, nil
		}
	}
	return nil, nil
}

func (s *TenantReadStore) List(ctx context.Context) ([]projection.TenantRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortTenants(s.collect(func(projection.TenantRow) bool { return true })), nil
}

func (s *TenantReadStore) ListByStatus(ctx context.Context, status string) ([]projection.TenantRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortTenants(s.collect(func(r projection.TenantRow) bool { return r.Status == status })), nil
}

func (s *TenantReadStore) SearchByName(ctx context.Context, name string) ([]projection.TenantRow, error) {
	needle := strings.ToLower(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortTenants(s.collect(func(r projection.TenantRow) bool {
		return strings.Contains(strings.ToLower(r.Name), needle)
	})), nil
}

func (s *TenantReadStore) collect(keep func(projection.TenantRow) bool) []projection.TenantRow {
	out := make([]projection.TenantRow, 0, len(s.rows))
	for _, row := range s.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func sortTenants(rows []projection.TenantRow) []projection.TenantRow {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

type AccountReadStore struct {
	mu   sync.RWMutex
	rows map[string]projection.AccountRow
}

func NewAccountReadStore() *AccountReadStore {
	return &AccountReadStore{rows: make(map[string]projection.AccountRow)}
}

func (s *AccountReadStore) Save(ctx context.Context, row projection.AccountRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.AccountID] = row
	return nil
}

func (s *AccountReadStore) Get(ctx context.Context, accountID string) (*projection.AccountRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[accountID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *AccountReadStore) List(ctx context.Context) ([]projection.AccountRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]projection.AccountRow, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type TransactionReadStore struct {
	mu   sync.RWMutex
	rows map[string]projection.TransactionRow
}

func NewTransactionReadStore() *TransactionReadStore {
	return &TransactionReadStore{rows: make(map[string]projection.TransactionRow)}
}

func (s *TransactionReadStore) Save(ctx context.Context, row projection.TransactionRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.TransactionID] = row
	return nil
}

func (s *TransactionReadStore) Get(ctx context.Context, transactionID string) (*projection.TransactionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[transactionID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *TransactionReadStore) ListByAccount(ctx context.Context, accountID string) ([]projection.TransactionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortTransactions(s.collect(func(r projection.TransactionRow) bool {
		return r.AccountID == accountID
	})), nil
}

func (s *TransactionReadStore) ListByAccountAndStatus(ctx context.Context, accountID, status string) ([]projection.TransactionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortTransactions(s.collect(func(r projection.TransactionRow) bool {
		return r.AccountID == accountID && r.Status == status
	})), nil
}

func (s *TransactionReadStore) Search(ctx context.Context, accountID, term string) ([]projection.TransactionRow, error) {
	needle := strings.ToLower(term)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortTransactions(s.collect(func(r projection.TransactionRow) bool {
		if r.AccountID != accountID {
			return false
		}
		return strings.Contains(strings.ToLower(r.Description), needle) ||
			strings.Contains(strings.ToLower(r.Notes), needle)
	})), nil
}

func (s *TransactionReadStore) collect(keep func(projection.TransactionRow) bool) []projection.TransactionRow {
	out := make([]projection.TransactionRow, 0, len(s.rows))
	for _, row := range s.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// Newest first, id as tie-break, matching the Postgres ORDER BY.
func sortTransactions(rows []projection.TransactionRow) []projection.TransactionRow {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].TransactionID < rows[j].TransactionID
	})
	return rows
}
