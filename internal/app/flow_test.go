package app

import (
	"context"
	"testing"
	"time"

	"github.com/elissongarcia/personal-finance-management/internal/bus"
	"github.com/elissongarcia/personal-finance-management/internal/clock"
	"github.com/elissongarcia/personal-finance-management/internal/projection"
	"github.com/elissongarcia/personal-finance-management/internal/saga"
	"github.com/elissongarcia/personal-finance-management/internal/storage/memory"
)

// TestCommandToProjectionFlow wires the full in-process pipeline: runtime,
// bus, projection synchronizer and sagas over the in-memory stores, then
// drives it through the services the HTTP layer uses.
func TestCommandToProjectionFlow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	tenantRows := memory.NewTenantReadStore()
	accountRows := memory.NewAccountReadStore()
	transactionRows := memory.NewTransactionReadStore()

	dispatcher := bus.NewDispatcher(nil)
	runtime := NewRuntime(
		memory.NewEventStore(),
		clock.NewFixed(now),
		WithSnapshots(memory.NewSnapshotStore(), 5),
		WithPublisher(dispatcher),
	)
	dispatcher.Subscribe(projection.NewSynchronizer(tenantRows, accountRows, transactionRows, nil))
	manager := saga.NewManager(runtime, nil, saga.TenantCreation{}, saga.TenantReactivation{})
	dispatcher.Subscribe(manager)
	dispatcher.Start()
	t.Cleanup(dispatcher.Stop)

	tenants := NewTenantService(runtime, tenantRows)
	accounts := NewAccountService(runtime, accountRows)
	transactions := NewTransactionService(runtime, transactionRows)

	t.Run("created tenant reaches the read model active", func(t *testing.T) {
		id, err := tenants.Create(ctx, CreateTenantInput{Name: "Acme", Domain: "acme.io", Email: "ops@acme.io"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		dispatcher.Drain()

		row, err := tenants.Get(ctx, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if row.Status != "active" {
			t.Fatalf("expected active row, got %q", row.Status)
		}

		if _, ok := manager.Lookup("tenant-creation", id); !ok {
			t.Fatal("expected a tenant-creation instance for the new tenant")
		}
	})

	t.Run("deactivate and reactivate propagate to the read model", func(t *testing.T) {
		id, err := tenants.Create(ctx, CreateTenantInput{Name: "Globex", Domain: "globex.io", Email: "ops@globex.io"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		dispatcher.Drain()

		if err := tenants.Deactivate(ctx, id); err != nil {
			t.Fatalf("deactivate: %v", err)
		}
		dispatcher.Drain()
		row, err := tenants.Get(ctx, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if row.Status != "inactive" {
			t.Fatalf("expected inactive, got %q", row.Status)
		}

		if err := tenants.Activate(ctx, id); err != nil {
			t.Fatalf("activate: %v", err)
		}
		dispatcher.Drain()
		row, err = tenants.Get(ctx, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if row.Status != "active" {
			t.Fatalf("expected active, got %q", row.Status)
		}

		inst, ok := manager.Lookup("tenant-reactivation", id)
		if !ok || !inst.Ended {
			t.Fatalf("expected an ended reactivation instance, got ok=%v inst=%+v", ok, inst)
		}
	})

	t.Run("transactions land under their account", func(t *testing.T) {
		balance := int64(500000)
		accountID, err := accounts.Open(ctx, OpenAccountInput{Name: "Checking", Type: "checking", InitialBalanceCents: &balance, Currency: "USD"})
		if err != nil {
			t.Fatalf("open account: %v", err)
		}

		txID, err := transactions.Record(ctx, RecordTransactionInput{
			AccountID:   accountID,
			Description: "groceries",
			AmountCents: -4250,
			Type:        "expense",
			Category:    "food",
			Date:        now,
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		dispatcher.Drain()

		rows, err := transactions.ListByAccount(ctx, accountID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(rows) != 1 || rows[0].TransactionID != txID {
			t.Fatalf("expected the recorded transaction, got %+v", rows)
		}
		if rows[0].Status != "pending" {
			t.Fatalf("expected pending, got %q", rows[0].Status)
		}

		desc := "weekly groceries"
		if err := transactions.Update(ctx, txID, UpdateTransactionInput{Description: &desc}); err != nil {
			t.Fatalf("update: %v", err)
		}
		dispatcher.Drain()

		row, err := transactions.Get(ctx, txID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if row.Description != desc {
			t.Fatalf("expected patched description, got %q", row.Description)
		}
		if row.AmountCents != -4250 {
			t.Fatalf("patch changed the amount: %d", row.AmountCents)
		}
	})
}
