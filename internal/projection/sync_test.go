package projection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elissongarcia/personal-finance-management/internal/domain"
	"github.com/elissongarcia/personal-finance-management/internal/eventlog"
)

type fakeTenantStore struct {
	rows  map[string]TenantRow
	saves int
	err   error
}

func newFakeTenantStore() *fakeTenantStore {
	return &fakeTenantStore{rows: make(map[string]TenantRow)}
}

func (s *fakeTenantStore) Save(ctx context.Context, row TenantRow) error {
	if s.err != nil {
		return s.err
	}
	s.saves++
	s.rows[row.TenantID] = row
	return nil
}

func (s *fakeTenantStore) Get(ctx context.Context, tenantID string) (*TenantRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	row, ok := s.rows[tenantID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

type fakeAccountStore struct {
	rows map[string]AccountRow
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{rows: make(map[string]AccountRow)}
}

func (s *fakeAccountStore) Save(ctx context.Context, row AccountRow) error {
	s.rows[row.AccountID] = row
	return nil
}

func (s *fakeAccountStore) Get(ctx context.Context, accountID string) (*AccountRow, error) {
	row, ok := s.rows[accountID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

type fakeTransactionStore struct {
	rows map[string]TransactionRow
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{rows: make(map[string]TransactionRow)}
}

func (s *fakeTransactionStore) Save(ctx context.Context, row TransactionRow) error {
	s.rows[row.TransactionID] = row
	return nil
}

func (s *fakeTransactionStore) Get(ctx context.Context, transactionID string) (*TransactionRow, error) {
	row, ok := s.rows[transactionID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func record(t *testing.T, seq int64, e domain.Event) eventlog.Record {
	t.Helper()
	kind, payload, err := domain.MarshalEvent(e)
	if err != nil {
		t.Fatalf("marshal %T: %v", e, err)
	}
	return eventlog.Record{
		AggregateID: e.AggregateID(),
		Seq:         seq,
		Kind:        kind,
		Payload:     payload,
		Revision:    domain.EventRevision,
		RecordedAt:  e.OccurredAt(),
	}
}

func TestSynchronizer_TenantLifecycle(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	tenants := newFakeTenantStore()
	proj := NewSynchronizer(tenants, newFakeAccountStore(), newFakeTransactionStore(), nil)

	created := record(t, 0, domain.TenantCreated{TenantID: "t-1", Name: "Acme", Domain: "acme.io", Email: "ops@acme.io", At: now})
	if err := proj.HandleRecord(ctx, created); err != nil {
		t.Fatalf("created: %v", err)
	}
	row := tenants.rows["t-1"]
	if row.Status != "active" {
		t.Fatalf("expected created row active, got %q", row.Status)
	}

	deactivated := record(t, 1, domain.TenantDeactivated{TenantID: "t-1", At: now.Add(time.Hour)})
	if err := proj.HandleRecord(ctx, deactivated); err != nil {
		t.Fatalf("deactivated: %v", err)
	}
	row = tenants.rows["t-1"]
	if row.Status != "inactive" {
		t.Fatalf("expected inactive, got %q", row.Status)
	}
	if row.Name != "Acme" {
		t.Fatalf("status patch touched other fields: %+v", row)
	}
	if !row.UpdatedAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected UpdatedAt from the event, got %v", row.UpdatedAt)
	}
}

func TestSynchronizer_Idempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	tenants := newFakeTenantStore()
	proj := NewSynchronizer(tenants, newFakeAccountStore(), newFakeTransactionStore(), nil)

	created := record(t, 0, domain.TenantCreated{TenantID: "t-1", Name: "Acme", Domain: "acme.io", Email: "ops@acme.io", At: now})
	updated := record(t, 1, domain.TenantUpdated{TenantID: "t-1", Name: "Acme Corp", Domain: "acme.io", Email: "ops@acme.io", At: now.Add(time.Hour)})

	for _, r := range []eventlog.Record{created, updated} {
		if err := proj.HandleRecord(ctx, r); err != nil {
			t.Fatalf("first delivery of %s: %v", r.Kind, err)
		}
	}
	first := tenants.rows["t-1"]

	// Redelivery of both records must leave the row byte-identical.
	for _, r := range []eventlog.Record{created, updated} {
		if err := proj.HandleRecord(ctx, r); err != nil {
			t.Fatalf("redelivery of %s: %v", r.Kind, err)
		}
	}
	second := tenants.rows["t-1"]
	if first != second {
		t.Fatalf("redelivery changed the row:\n%+v\n%+v", first, second)
	}
}

func TestSynchronizer_MissingRow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	tenants := newFakeTenantStore()
	transactions := newFakeTransactionStore()
	proj := NewSynchronizer(tenants, newFakeAccountStore(), transactions, nil)

	// Update-shaped events racing ahead of creation are skipped, not errors.
	updates := []eventlog.Record{
		record(t, 1, domain.TenantUpdated{TenantID: "ghost", Name: "x", Domain: "x", Email: "x", At: now}),
		record(t, 2, domain.TenantActivated{TenantID: "ghost", At: now}),
		record(t, 1, domain.TransactionUpdated{TransactionID: "ghost-tx", At: now}),
	}
	for _, r := range updates {
		if err := proj.HandleRecord(ctx, r); err != nil {
			t.Fatalf("expected %s against a missing row to be skipped, got %v", r.Kind, err)
		}
	}
	if tenants.saves != 0 {
		t.Fatalf("skipped events wrote %d rows", tenants.saves)
	}
	if len(transactions.rows) != 0 {
		t.Fatalf("skipped transaction update wrote a row")
	}
}

func TestSynchronizer_TransactionPatch(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	transactions := newFakeTransactionStore()
	proj := NewSynchronizer(newFakeTenantStore(), newFakeAccountStore(), transactions, nil)

	recorded := record(t, 0, domain.TransactionRecorded{
		TransactionID: "tx-1", AccountID: "a-1", Description: "groceries",
		AmountCents: -4250, Type: "expense", Category: "food", Date: now, At: now,
	})
	if err := proj.HandleRecord(ctx, recorded); err != nil {
		t.Fatalf("recorded: %v", err)
	}

	amount := int64(-5000)
	patch := record(t, 1, domain.TransactionUpdated{TransactionID: "tx-1", AmountCents: &amount, At: now.Add(time.Hour)})
	if err := proj.HandleRecord(ctx, patch); err != nil {
		t.Fatalf("patch: %v", err)
	}

	row := transactions.rows["tx-1"]
	if row.AmountCents != amount {
		t.Fatalf("expected amount %d, got %d", amount, row.AmountCents)
	}
	if row.Description != "groceries" {
		t.Fatalf("nil field was overwritten: %q", row.Description)
	}
	if row.Category != "food" {
		t.Fatalf("nil field was overwritten: %q", row.Category)
	}
}

func TestSynchronizer_PropagatesStoreFailure(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	tenants := newFakeTenantStore()
	tenants.err = errors.New("db down")
	proj := NewSynchronizer(tenants, newFakeAccountStore(), newFakeTransactionStore(), nil)

	created := record(t, 0, domain.TenantCreated{TenantID: "t-1", Name: "Acme", Domain: "acme.io", Email: "ops@acme.io", At: now})
	if err := proj.HandleRecord(ctx, created); err == nil {
		t.Fatal("expected store failure to propagate for redelivery")
	}
}

func TestSynchronizer_UnknownKind(t *testing.T) {
	t.Parallel()

	proj := NewSynchronizer(newFakeTenantStore(), newFakeAccountStore(), newFakeTransactionStore(), nil)
	err := proj.HandleRecord(context.Background(), eventlog.Record{AggregateID: "t-1", Kind: "tenant.renamed", Payload: []byte(`{}`)})
	if !errors.Is(err, domain.ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}
