package app

import (
	"context"

	"github.com/elissongarcia/personal-finance-management/internal/domain"
	"github.com/elissongarcia/personal-finance-management/internal/projection"
	"github.com/google/uuid"
)

// CommandBus is the write-side entry point services submit commands through.
type CommandBus interface {
	Handle(ctx context.Context, cmd domain.Command) ([]domain.Event, error)
}

// TenantReads is the slice of the tenant read model the service exposes.
// Lookups return nil when no row exists.
type TenantReads interface {
	Get(ctx context.Context, tenantID string) (*projection.TenantRow, error)
	GetByDomain(ctx context.Context, domainName string) (*projection.TenantRow, error)
	List(ctx context.Context) ([]projection.TenantRow, error)
	ListByStatus(ctx context.Context, status string) ([]projection.TenantRow, error)
	SearchByName(ctx context.Context, name string) ([]projection.TenantRow, error)
}

// TenantService mints tenant ids, submits tenant commands and serves tenant
// queries from the projection. Queries never touch the aggregate runtime, so
// results may trail the log briefly.
type TenantService struct {
	cmds  CommandBus
	reads TenantReads
}

func NewTenantService(cmds CommandBus, reads TenantReads) *TenantService {
	return &TenantService{cmds: cmds, reads: reads}
}

type CreateTenantInput struct {
	Name   string
	Domain string
	Email  string
}

func (s *TenantService) Create(ctx context.Context, in CreateTenantInput) (string, error) {
	id := uuid.NewString()
	_, err := s.cmds.Handle(ctx, domain.CreateTenant{
		TenantID: id,
		Name:     in.Name,
		Domain:   in.Domain,
		Email:    in.Email,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

type UpdateTenantInput struct {
	Name   string
	Domain string
	Email  string
}

func (s *TenantService) Update(ctx context.Context, tenantID string, in UpdateTenantInput) error {
	_, err := s.cmds.Handle(ctx, domain.UpdateTenant{
		TenantID: tenantID,
		Name:     in.Name,
		Domain:   in.Domain,
		Email:    in.Email,
	})
	return err
}

func (s *TenantService) Activate(ctx context.Context, tenantID string) error {
	_, err := s.cmds.Handle(ctx, domain.ActivateTenant{TenantID: tenantID})
	return err
}

func (s *TenantService) Deactivate(ctx context.Context, tenantID string) error {
	_, err := s.cmds.Handle(ctx, domain.DeactivateTenant{TenantID: tenantID})
	return err
}

func (s *TenantService) Get(ctx context.Context, tenantID string) (projection.TenantRow, error) {
	row, err := s.reads.Get(ctx, tenantID)
	if err != nil {
		return projection.TenantRow{}, err
	}
	if row == nil {
		return projection.TenantRow{}, domain.ErrNotFound
	}
	return *row, nil
}

func (s *TenantService) GetByDomain(ctx context.Context, domainName string) (projection.TenantRow, error) {
	row, err := s.reads.GetByDomain(ctx, domainName)
	if err != nil {
		return projection.TenantRow{}, err
	}
	if row == nil {
		return projection.TenantRow{}, domain.ErrNotFound
	}
	return *row, nil
}

func (s *TenantService) List(ctx context.Context) ([]projection.TenantRow, error) {
	return s.reads.List(ctx)
}

func (s *TenantService) ListByStatus(ctx context.Context, status string) ([]projection.TenantRow, error) {
	return s.reads.ListByStatus(ctx, status)
}

func (s *TenantService) SearchByName(ctx context.Context, name string) ([]projection.TenantRow, error) {
	return s.reads.SearchByName(ctx, name)
}
