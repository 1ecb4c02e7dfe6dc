package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elissongarcia/personal-finance-management/internal/app"
	"github.com/elissongarcia/personal-finance-management/internal/domain"
	"github.com/elissongarcia/personal-finance-management/internal/projection"
)

type fakeTransactionCommands struct {
	err     error
	updates map[string]app.UpdateTransactionInput
}

func (f *fakeTransactionCommands) Record(ctx context.Context, in app.RecordTransactionInput) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "tx-123", nil
}

func (f *fakeTransactionCommands) Update(ctx context.Context, transactionID string, in app.UpdateTransactionInput) error {
	if f.err != nil {
		return f.err
	}
	if f.updates == nil {
		f.updates = make(map[string]app.UpdateTransactionInput)
	}
	f.updates[transactionID] = in
	return nil
}

type fakeTransactionQueries struct {
	rows []projection.TransactionRow
}

func (f *fakeTransactionQueries) Get(ctx context.Context, transactionID string) (projection.TransactionRow, error) {
	for _, row := range f.rows {
		if row.TransactionID == transactionID {
			return row, nil
		}
	}
	return projection.TransactionRow{}, domain.ErrNotFound
}

func (f *fakeTransactionQueries) ListByAccount(ctx context.Context, accountID string) ([]projection.TransactionRow, error) {
	var out []projection.TransactionRow
	for _, row := range f.rows {
		if row.AccountID == accountID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeTransactionQueries) ListByAccountAndStatus(ctx context.Context, accountID, status string) ([]projection.TransactionRow, error) {
	var out []projection.TransactionRow
	for _, row := range f.rows {
		if row.AccountID == accountID && row.Status == status {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeTransactionQueries) Search(ctx context.Context, accountID, term string) ([]projection.TransactionRow, error) {
	var out []projection.TransactionRow
	for _, row := range f.rows {
		if row.AccountID == accountID && strings.Contains(row.Description, term) {
			out = append(out, row)
		}
	}
	return out, nil
}

func TestHandleRecordTransaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "success",
			body:           `{"account_id":"a-1","description":"groceries","amount_cents":-4250,"type":"expense","category":"food","date":"2025-03-01T09:00:00Z"}`,
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "invalid json",
			body:           `{"account_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero amount rejected",
			body:           `{"account_id":"a-1","amount_cents":0,"type":"expense","date":"2025-03-01T09:00:00Z"}`,
			serviceErr:     &domain.ValidationError{Rule: "transaction amount cannot be zero"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeTransactionCommands{err: tc.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			HandleRecordTransaction(svc)(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.expectedStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleUpdateTransaction(t *testing.T) {
	t.Parallel()

	t.Run("absent fields stay nil in the patch", func(t *testing.T) {
		svc := &fakeTransactionCommands{}
		req := httptest.NewRequest(http.MethodPatch, "/transactions/tx-1", strings.NewReader(`{"description":"weekly groceries"}`))
		req.SetPathValue("id", "tx-1")
		rec := httptest.NewRecorder()

		HandleUpdateTransaction(svc)(rec, req)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
		}
		patch, ok := svc.updates["tx-1"]
		if !ok {
			t.Fatal("expected an update for tx-1")
		}
		if patch.Description == nil || *patch.Description != "weekly groceries" {
			t.Fatalf("expected description patch, got %+v", patch)
		}
		if patch.AmountCents != nil || patch.Category != nil || patch.Date != nil || patch.Notes != nil {
			t.Fatalf("absent fields must stay nil, got %+v", patch)
		}
	})

	t.Run("missing transaction maps to 404", func(t *testing.T) {
		svc := &fakeTransactionCommands{err: domain.ErrNotFound}
		req := httptest.NewRequest(http.MethodPatch, "/transactions/ghost", strings.NewReader(`{"notes":"x"}`))
		req.SetPathValue("id", "ghost")
		rec := httptest.NewRecorder()

		HandleUpdateTransaction(svc)(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleListTransactions(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	queries := &fakeTransactionQueries{rows: []projection.TransactionRow{
		{TransactionID: "tx-1", AccountID: "a-1", Description: "groceries", Status: "pending", Date: now},
		{TransactionID: "tx-2", AccountID: "a-1", Description: "rent", Status: "completed", Date: now},
		{TransactionID: "tx-3", AccountID: "a-2", Description: "coffee", Status: "pending", Date: now},
	}}

	list := func(t *testing.T, target, accountID string) []transactionResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.SetPathValue("id", accountID)
		rec := httptest.NewRecorder()
		HandleListTransactions(queries)(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var out []transactionResponse
		if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return out
	}

	t.Run("lists the account's transactions", func(t *testing.T) {
		if got := list(t, "/accounts/a-1/transactions", "a-1"); len(got) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(got))
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		got := list(t, "/accounts/a-1/transactions?status=pending", "a-1")
		if len(got) != 1 || got[0].ID != "tx-1" {
			t.Fatalf("unexpected rows: %+v", got)
		}
	})

	t.Run("searches descriptions", func(t *testing.T) {
		got := list(t, "/accounts/a-1/transactions?search=rent", "a-1")
		if len(got) != 1 || got[0].ID != "tx-2" {
			t.Fatalf("unexpected rows: %+v", got)
		}
	})
}
