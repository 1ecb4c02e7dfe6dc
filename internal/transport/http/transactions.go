package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/elissongarcia/personal-finance-management/internal/app"
	"github.com/elissongarcia/personal-finance-management/internal/projection"
)

type TransactionCommands interface {
	Record(ctx context.Context, in app.RecordTransactionInput) (string, error)
	Update(ctx context.Context, transactionID string, in app.UpdateTransactionInput) error
}

type TransactionQueries interface {
	Get(ctx context.Context, transactionID string) (projection.TransactionRow, error)
	ListByAccount(ctx context.Context, accountID string) ([]projection.TransactionRow, error)
	ListByAccountAndStatus(ctx context.Context, accountID, status string) ([]projection.TransactionRow, error)
	Search(ctx context.Context, accountID, term string) ([]projection.TransactionRow, error)
}

type recordTransactionRequest struct {
	AccountID     string     `json:"account_id"`
	Description   string     `json:"description"`
	AmountCents   int64      `json:"amount_cents"`
	Type          string     `json:"type"`
	Category      string     `json:"category"`
	Date          time.Time  `json:"date"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Notes         string     `json:"notes"`
}

// updateTransactionRequest is a patch; absent fields stay unchanged.
type updateTransactionRequest struct {
	Description   *string    `json:"description"`
	AmountCents   *int64     `json:"amount_cents"`
	Category      *string    `json:"category"`
	Date          *time.Time `json:"date"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Notes         *string    `json:"notes"`
}

type transactionResponse struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"account_id"`
	Description   string     `json:"description"`
	AmountCents   int64      `json:"amount_cents"`
	Type          string     `json:"type"`
	Category      string     `json:"category"`
	Date          time.Time  `json:"date"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toTransactionResponse(row projection.TransactionRow) transactionResponse {
	return transactionResponse{
		ID:            row.TransactionID,
		AccountID:     row.AccountID,
		Description:   row.Description,
		AmountCents:   row.AmountCents,
		Type:          row.Type,
		Category:      row.Category,
		Date:          row.Date,
		ScheduledDate: row.ScheduledDate,
		Status:        row.Status,
		Notes:         row.Notes,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func HandleRecordTransaction(svc TransactionCommands) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordTransactionRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		id, err := svc.Record(r.Context(), app.RecordTransactionInput{
			AccountID:     req.AccountID,
			Description:   req.Description,
			AmountCents:   req.AmountCents,
			Type:          req.Type,
			Category:      req.Category,
			Date:          req.Date,
			ScheduledDate: req.ScheduledDate,
			Notes:         req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
	}
}

func HandleUpdateTransaction(svc TransactionCommands) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.PathValue("id"))
		if id == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "transaction id is required")
			return
		}

		var req updateTransactionRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := svc.Update(r.Context(), id, app.UpdateTransactionInput{
			Description:   req.Description,
			AmountCents:   req.AmountCents,
			Category:      req.Category,
			Date:          req.Date,
			ScheduledDate: req.ScheduledDate,
			Notes:         req.Notes,
		}); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func HandleGetTransaction(svc TransactionQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.PathValue("id"))
		row, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransactionResponse(row))
	}
}

// HandleListTransactions serves GET /accounts/{id}/transactions with optional
// ?status= or ?search= filters.
func HandleListTransactions(svc TransactionQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := strings.TrimSpace(r.PathValue("id"))
		if accountID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "account id is required")
			return
		}

		q := r.URL.Query()
		var (
			rows []projection.TransactionRow
			err  error
		)
		switch {
		case q.Get("status") != "":
			rows, err = svc.ListByAccountAndStatus(r.Context(), accountID, q.Get("status"))
		case q.Get("search") != "":
			rows, err = svc.Search(r.Context(), accountID, q.Get("search"))
		default:
			rows, err = svc.ListByAccount(r.Context(), accountID)
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]transactionResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, toTransactionResponse(row))
		}
		writeJSON(w, http.StatusOK, out)
	}
}
