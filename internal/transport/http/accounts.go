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

type AccountCommands interface {
	Open(ctx context.Context, in app.OpenAccountInput) (string, error)
}

type AccountQueries interface {
	Get(ctx context.Context, accountID string) (projection.AccountRow, error)
	List(ctx context.Context) ([]projection.AccountRow, error)
}

type openAccountRequest struct {
	Name                string `json:"name"`
	Type                string `json:"type"`
	InitialBalanceCents *int64 `json:"initial_balance_cents"`
	Currency            string `json:"currency"`
	AccountNumber       string `json:"account_number"`
	Institution         string `json:"institution"`
	Notes               string `json:"notes"`
}

type accountResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	BalanceCents  int64     `json:"balance_cents"`
	Currency      string    `json:"currency"`
	AccountNumber string    `json:"account_number"`
	Institution   string    `json:"institution"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toAccountResponse(row projection.AccountRow) accountResponse {
	return accountResponse{
		ID:            row.AccountID,
		Name:          row.Name,
		Type:          row.Type,
		BalanceCents:  row.BalanceCents,
		Currency:      row.Currency,
		AccountNumber: row.AccountNumber,
		Institution:   row.Institution,
		Status:        row.Status,
		Notes:         row.Notes,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func HandleOpenAccount(svc AccountCommands) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openAccountRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		id, err := svc.Open(r.Context(), app.OpenAccountInput{
			Name:                req.Name,
			Type:                req.Type,
			InitialBalanceCents: req.InitialBalanceCents,
			Currency:            req.Currency,
			AccountNumber:       req.AccountNumber,
			Institution:         req.Institution,
			Notes:               req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
	}
}

func HandleGetAccount(svc AccountQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.PathValue("id"))
		row, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAccountResponse(row))
	}
}

func HandleListAccounts(svc AccountQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]accountResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, toAccountResponse(row))
		}
		writeJSON(w, http.StatusOK, out)
	}
}
