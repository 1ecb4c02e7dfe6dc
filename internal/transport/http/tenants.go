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

// TenantCommands is the write-side surface the tenant handlers need.
type TenantCommands interface {
	Create(ctx context.Context, in app.CreateTenantInput) (string, error)
	Update(ctx context.Context, tenantID string, in app.UpdateTenantInput) error
	Activate(ctx context.Context, tenantID string) error
	Deactivate(ctx context.Context, tenantID string) error
}

// TenantQueries serves tenant lookups from the projection.
type TenantQueries interface {
	Get(ctx context.Context, tenantID string) (projection.TenantRow, error)
	GetByDomain(ctx context.Context, domainName string) (projection.TenantRow, error)
	List(ctx context.Context) ([]projection.TenantRow, error)
	ListByStatus(ctx context.Context, status string) ([]projection.TenantRow, error)
	SearchByName(ctx context.Context, name string) ([]projection.TenantRow, error)
}

type tenantRequest struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Email  string `json:"email"`
}

type tenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTenantResponse(row projection.TenantRow) tenantResponse {
	return tenantResponse{
		ID:        row.TenantID,
		Name:      row.Name,
		Domain:    row.Domain,
		Email:     row.Email,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// HandleCreateTenant accepts POST /tenants and returns the minted id. The
// projection row appears asynchronously; callers poll the query side.
func HandleCreateTenant(svc TenantCommands) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tenantRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		id, err := svc.Create(r.Context(), app.CreateTenantInput{
			Name:   req.Name,
			Domain: req.Domain,
			Email:  req.Email,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
	}
}

func HandleUpdateTenant(svc TenantCommands) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.PathValue("id"))
		if id == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "tenant id is required")
			return
		}

		var req tenantRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := svc.Update(r.Context(), id, app.UpdateTenantInput{
			Name:   req.Name,
			Domain: req.Domain,
			Email:  req.Email,
		}); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func HandleActivateTenant(svc TenantCommands) http.HandlerFunc {
	return tenantLifecycleHandler(svc.Activate)
}

func HandleDeactivateTenant(svc TenantCommands) http.HandlerFunc {
	return tenantLifecycleHandler(svc.Deactivate)
}

func tenantLifecycleHandler(op func(ctx context.Context, tenantID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.PathValue("id"))
		if id == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "tenant id is required")
			return
		}
		if err := op(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func HandleGetTenant(svc TenantQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.PathValue("id"))
		row, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTenantResponse(row))
	}
}

// HandleListTenants serves GET /tenants with optional ?domain=, ?status= or
// ?search= filters, checked in that order.
func HandleListTenants(svc TenantQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if domainName := q.Get("domain"); domainName != "" {
			row, err := svc.GetByDomain(r.Context(), domainName)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toTenantResponse(row))
			return
		}

		var (
			rows []projection.TenantRow
			err  error
		)
		switch {
		case q.Get("status") != "":
			rows, err = svc.ListByStatus(r.Context(), q.Get("status"))
		case q.Get("search") != "":
			rows, err = svc.SearchByName(r.Context(), q.Get("search"))
		default:
			rows, err = svc.List(r.Context())
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]tenantResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, toTenantResponse(row))
		}
		writeJSON(w, http.StatusOK, out)
	}
}
