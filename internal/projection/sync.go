package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/elissongarcia/personal-finance-management/internal/domain"
	"github.com/elissongarcia/personal-finance-management/internal/eventlog"
	"go.uber.org/zap"
)

// TenantStore is the slice of the read-model store the synchronizer needs
// for tenant rows. Save has upsert (set, not add) semantics keyed on the
// tenant id; Get returns nil when no row exists.
type TenantStore interface {
	Save(ctx context.Context, row TenantRow) error
	Get(ctx context.Context, tenantID string) (*TenantRow, error)
}

type AccountStore interface {
	Save(ctx context.Context, row AccountRow) error
	Get(ctx context.Context, accountID string) (*AccountRow, error)
}

type TransactionStore interface {
	Save(ctx context.Context, row TransactionRow) error
	Get(ctx context.Context, transactionID string) (*TransactionRow, error)
}

// Synchronizer applies committed events to the read models. Delivery is
// at-least-once, so every handler is idempotent: applying the same event
// twice leaves the same row. An update arriving before its creation event is
// skipped silently; that gap is an accepted eventual-consistency trade-off,
// not an error.
type Synchronizer struct {
	tenants      TenantStore
	accounts     AccountStore
	transactions TransactionStore
	log          *zap.Logger
}

func NewSynchronizer(tenants TenantStore, accounts AccountStore, transactions TransactionStore, log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{
		tenants:      tenants,
		accounts:     accounts,
		transactions: transactions,
		log:          log,
	}
}

func (s *Synchronizer) Name() string { return "projection" }

// HandleRecord updates exactly the rows implied by one event. Store-level
// failures propagate upward so the bus can redeliver; they are never
// swallowed.
func (s *Synchronizer) HandleRecord(ctx context.Context, rec eventlog.Record) error {
	e, err := domain.UnmarshalEvent(rec.Kind, rec.Payload)
	if err != nil {
		return fmt.Errorf("projection decode seq %d of %s: %w", rec.Seq, rec.AggregateID, err)
	}

	switch ev := e.(type) {
	case domain.TenantCreated:
		return s.tenants.Save(ctx, TenantRow{
			TenantID:  ev.TenantID,
			Name:      ev.Name,
			Domain:    ev.Domain,
			Email:     ev.Email,
			Status:    string(domain.TenantStatusActive),
			CreatedAt: ev.At,
			UpdatedAt: ev.At,
		})
	case domain.TenantUpdated:
		row, err := s.tenants.Get(ctx, ev.TenantID)
		if err != nil {
			return err
		}
		if row == nil {
			s.skip(rec)
			return nil
		}
		row.Name = ev.Name
		row.Domain = ev.Domain
		row.Email = ev.Email
		row.UpdatedAt = ev.At
		return s.tenants.Save(ctx, *row)
	case domain.TenantActivated:
		return s.patchTenantStatus(ctx, rec, ev.TenantID, string(domain.TenantStatusActive), ev.At)
	case domain.TenantDeactivated:
		return s.patchTenantStatus(ctx, rec, ev.TenantID, string(domain.TenantStatusInactive), ev.At)
	case domain.AccountOpened:
		return s.accounts.Save(ctx, AccountRow{
			AccountID:     ev.AccountID,
			Name:          ev.Name,
			Type:          ev.Type,
			BalanceCents:  ev.InitialBalanceCents,
			Currency:      ev.Currency,
			AccountNumber: ev.AccountNumber,
			Institution:   ev.Institution,
			Status:        string(domain.AccountStatusActive),
			Notes:         ev.Notes,
			CreatedAt:     ev.At,
			UpdatedAt:     ev.At,
		})
	case domain.TransactionRecorded:
		return s.transactions.Save(ctx, TransactionRow{
			TransactionID: ev.TransactionID,
			AccountID:     ev.AccountID,
			Description:   ev.Description,
			AmountCents:   ev.AmountCents,
			Type:          ev.Type,
			Category:      ev.Category,
			Date:          ev.Date,
			ScheduledDate: ev.ScheduledDate,
			Status:        string(domain.TransactionStatusPending),
			Notes:         ev.Notes,
			CreatedAt:     ev.At,
			UpdatedAt:     ev.At,
		})
	case domain.TransactionUpdated:
		row, err := s.transactions.Get(ctx, ev.TransactionID)
		if err != nil {
			return err
		}
		if row == nil {
			s.skip(rec)
			return nil
		}
		if ev.Description != nil {
			row.Description = *ev.Description
		}
		if ev.AmountCents != nil {
			row.AmountCents = *ev.AmountCents
		}
		if ev.Category != nil {
			row.Category = *ev.Category
		}
		if ev.Date != nil {
			row.Date = *ev.Date
		}
		if ev.ScheduledDate != nil {
			row.ScheduledDate = ev.ScheduledDate
		}
		if ev.Notes != nil {
			row.Notes = *ev.Notes
		}
		row.UpdatedAt = ev.At
		return s.transactions.Save(ctx, *row)
	}
	return fmt.Errorf("projection has no handler for %q: %w", rec.Kind, domain.ErrUnknownEvent)
}

func (s *Synchronizer) patchTenantStatus(ctx context.Context, rec eventlog.Record, tenantID, status string, at time.Time) error {
	row, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return err
	}
	if row == nil {
		s.skip(rec)
		return nil
	}
	row.Status = status
	row.UpdatedAt = at
	return s.tenants.Save(ctx, *row)
}

func (s *Synchronizer) skip(rec eventlog.Record) {
	s.log.Warn("read model row missing, skipping event",
		zap.String("aggregate_id", rec.AggregateID),
		zap.Int64("seq", rec.Seq),
		zap.String("kind", rec.Kind),
	)
}
