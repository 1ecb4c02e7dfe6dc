package app

import (
	"context"

	"github.com/elissongarcia/personal-finance-management/internal/domain"
	"github.com/elissongarcia/personal-finance-management/internal/projection"
	"github.com/google/uuid"
)

type AccountReads interface {
	Get(ctx context.Context, accountID string) (*projection.AccountRow, error)
	List(ctx context.Context) ([]projection.AccountRow, error)
}

type AccountService struct {
	cmds  CommandBus
	reads AccountReads
}

func NewAccountService(cmds CommandBus, reads AccountReads) *AccountService {
	return &AccountService{cmds: cmds, reads: reads}
}

type OpenAccountInput struct {
	Name                string
	Type                string
	InitialBalanceCents *int64
	Currency            string
	AccountNumber       string
	Institution         string
	Notes               string
}

func (s *AccountService) Open(ctx context.Context, in OpenAccountInput) (string, error) {
	id := uuid.NewString()
	_, err := s.cmds.Handle(ctx, domain.OpenAccount{
		AccountID:           id,
		Name:                in.Name,
		Type:                in.Type,
		InitialBalanceCents: in.InitialBalanceCents,
		Currency:            in.Currency,
		AccountNumber:       in.AccountNumber,
		Institution:         in.Institution,
		Notes:               in.Notes,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *AccountService) Get(ctx context.Context, accountID string) (projection.AccountRow, error) {
	row, err := s.reads.Get(ctx, accountID)
	if err != nil {
		return projection.AccountRow{}, err
	}
	if row == nil {
		return projection.AccountRow{}, domain.ErrNotFound
	}
	return *row, nil
}

func (s *AccountService) List(ctx context.Context) ([]projection.AccountRow, error) {
	return s.reads.List(ctx)
}
