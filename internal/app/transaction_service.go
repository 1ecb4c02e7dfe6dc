package app

import (
	"context"
	"time"

	"github.com/elissongarcia/personal-finance-management/internal/domain"
	"github.com/elissongarcia/personal-finance-management/internal/projection"
	"github.com/google/uuid"
)

type TransactionReads interface {
	Get(ctx context.Context, transactionID string) (*projection.TransactionRow, error)
	ListByAccount(ctx context.Context, accountID string) ([]projection.TransactionRow, error)
	ListByAccountAndStatus(ctx context.Context, accountID, status string) ([]projection.TransactionRow, error)
	Search(ctx context.Context, accountID, term string) ([]projection.TransactionRow, error)
}

type TransactionService struct {
	cmds  CommandBus
	reads TransactionReads
}

func NewTransactionService(cmds CommandBus, reads TransactionReads) *TransactionService {
	return &TransactionService{cmds: cmds, reads: reads}
}

type RecordTransactionInput struct {
	AccountID     string
	Description   string
	AmountCents   int64
	Type          string
	Category      string
	Date          time.Time
	ScheduledDate *time.Time
	Notes         string
}

func (s *TransactionService) Record(ctx context.Context, in RecordTransactionInput) (string, error) {
	id := uuid.NewString()
	_, err := s.cmds.Handle(ctx, domain.RecordTransaction{
		TransactionID: id,
		AccountID:     in.AccountID,
		Description:   in.Description,
		AmountCents:   in.AmountCents,
		Type:          in.Type,
		Category:      in.Category,
		Date:          in.Date,
		ScheduledDate: in.ScheduledDate,
		Notes:         in.Notes,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateTransactionInput patches a transaction; nil fields stay unchanged.
type UpdateTransactionInput struct {
	Description   *string
	AmountCents   *int64
	Category      *string
	Date          *time.Time
	ScheduledDate *time.Time
	Notes         *string
}

func (s *TransactionService) Update(ctx context.Context, transactionID string, in UpdateTransactionInput) error {
	_, err := s.cmds.Handle(ctx, domain.UpdateTransaction{
		TransactionID: transactionID,
		Description:   in.Description,
		AmountCents:   in.AmountCents,
		Category:      in.Category,
		Date:          in.Date,
		ScheduledDate: in.ScheduledDate,
		Notes:         in.Notes,
	})
	return err
}

func (s *TransactionService) Get(ctx context.Context, transactionID string) (projection.TransactionRow, error) {
	row, err := s.reads.Get(ctx, transactionID)
	if err != nil {
		return projection.TransactionRow{}, err
	}
	if row == nil {
		return projection.TransactionRow{}, domain.ErrNotFound
	}
	return *row, nil
}

func (s *TransactionService) ListByAccount(ctx context.Context, accountID string) ([]projection.TransactionRow, error) {
	return s.reads.ListByAccount(ctx, accountID)
}

func (s *TransactionService) ListByAccountAndStatus(ctx context.Context, accountID, status string) ([]projection.TransactionRow, error) {
	return s.reads.ListByAccountAndStatus(ctx, accountID, status)
}

func (s *TransactionService) Search(ctx context.Context, accountID, term string) ([]projection.TransactionRow, error) {
	return s.reads.Search(ctx, accountID, term)
}
