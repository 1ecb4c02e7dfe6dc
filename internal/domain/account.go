package domain

import "time"

type AccountStatus string

const AccountStatusActive AccountStatus = "active"

// Account holds a balance in integer cents. The zero value is the absent
// state.
type Account struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	BalanceCents  int64         `json:"balance_cents"`
	Currency      string        `json:"currency"`
	AccountNumber string        `json:"account_number"`
	Institution   string        `json:"institution"`
	Status        AccountStatus `json:"status"`
	Notes         string        `json:"notes"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (a *Account) Kind() AggregateKind { return KindAccount }

func (a *Account) Apply(e Event) {
	switch ev := e.(type) {
	case AccountOpened:
		a.ID = ev.AccountID
		a.Name = ev.Name
		a.Type = ev.Type
		a.BalanceCents = ev.InitialBalanceCents
		a.Currency = ev.Currency
		a.AccountNumber = ev.AccountNumber
		a.Institution = ev.Institution
		a.Status = AccountStatusActive
		a.Notes = ev.Notes
		a.CreatedAt = ev.At
		a.UpdatedAt = ev.At
	}
}

func (a *Account) Decide(c Command, now time.Time) ([]Event, error) {
	switch cmd := c.(type) {
	case OpenAccount:
		if cmd.InitialBalanceCents == nil {
			return nil, validationErr("initial balance is required")
		}
		if cmd.Name == "" {
			return nil, validationErr("account name is required")
		}
		return []Event{AccountOpened{
			AccountID:           cmd.AccountID,
			Name:                cmd.Name,
			Type:                cmd.Type,
			InitialBalanceCents: *cmd.InitialBalanceCents,
			Currency:            cmd.Currency,
			AccountNumber:       cmd.AccountNumber,
			Institution:         cmd.Institution,
			Notes:               cmd.Notes,
			At:                  now,
		}}, nil
	}
	return nil, validationErr("command %T does not target an account", c)
}
