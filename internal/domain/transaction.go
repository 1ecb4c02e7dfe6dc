package domain

import "time"

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction is a single ledger entry against an account. The zero value is
// the absent state.
type Transaction struct {
	ID            string            `json:"id"`
	AccountID     string            `json:"account_id"`
	Description   string            `json:"description"`
	AmountCents   int64             `json:"amount_cents"`
	Type          TransactionType   `json:"type"`
	Category      string            `json:"category"`
	Date          time.Time         `json:"date"`
	ScheduledDate *time.Time        `json:"scheduled_date,omitempty"`
	Status        TransactionStatus `json:"status"`
	Notes         string            `json:"notes"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (t *Transaction) Kind() AggregateKind { return KindTransaction }

func (t *Transaction) Apply(e Event) {
	switch ev := e.(type) {
	case TransactionRecorded:
		t.ID = ev.TransactionID
		t.AccountID = ev.AccountID
		t.Description = ev.Description
		t.AmountCents = ev.AmountCents
		t.Type = TransactionType(ev.Type)
		t.Category = ev.Category
		t.Date = ev.Date
		t.ScheduledDate = ev.ScheduledDate
		t.Status = TransactionStatusPending
		t.Notes = ev.Notes
		t.CreatedAt = ev.At
		t.UpdatedAt = ev.At
	case TransactionUpdated:
		if ev.Description != nil {
			t.Description = *ev.Description
		}
		if ev.AmountCents != nil {
			t.AmountCents = *ev.AmountCents
		}
		if ev.Category != nil {
			t.Category = *ev.Category
		}
		if ev.Date != nil {
			t.Date = *ev.Date
		}
		if ev.ScheduledDate != nil {
			t.ScheduledDate = ev.ScheduledDate
		}
		if ev.Notes != nil {
			t.Notes = *ev.Notes
		}
		t.UpdatedAt = ev.At
	}
}

func (t *Transaction) Decide(c Command, now time.Time) ([]Event, error) {
	switch cmd := c.(type) {
	case RecordTransaction:
		if cmd.AmountCents == 0 {
			return nil, validationErr("transaction amount cannot be zero")
		}
		if cmd.AccountID == "" {
			return nil, validationErr("transaction account id is required")
		}
		if cmd.Type != string(TransactionTypeIncome) && cmd.Type != string(TransactionTypeExpense) {
			return nil, validationErr("transaction type must be income or expense")
		}
		return []Event{TransactionRecorded{
			TransactionID: cmd.TransactionID,
			AccountID:     cmd.AccountID,
			Description:   cmd.Description,
			AmountCents:   cmd.AmountCents,
			Type:          cmd.Type,
			Category:      cmd.Category,
			Date:          cmd.Date,
			ScheduledDate: cmd.ScheduledDate,
			Notes:         cmd.Notes,
			At:            now,
		}}, nil
	case UpdateTransaction:
		if cmd.AmountCents != nil && *cmd.AmountCents == 0 {
			return nil, validationErr("transaction amount cannot be zero")
		}
		return []Event{TransactionUpdated{
			TransactionID: cmd.TransactionID,
			Description:   cmd.Description,
			AmountCents:   cmd.AmountCents,
			Category:      cmd.Category,
			Date:          cmd.Date,
			ScheduledDate: cmd.ScheduledDate,
			Notes:         cmd.Notes,
			At:            now,
		}}, nil
	}
	return nil, validationErr("command %T does not target a transaction", c)
}
