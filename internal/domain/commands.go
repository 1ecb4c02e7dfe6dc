package domain

import "time"

// Command is the closed set of requests that can mutate an aggregate.
// Commands are transient: only the events they produce are durable.
type Command interface {
	AggregateID() string
	isCommand()
}

type CreateTenant struct {
	TenantID string
	Name     string
	Domain   string
	Email    string
}

type UpdateTenant struct {
	TenantID string
	Name     string
	Domain   string
	Email    string
}

type ActivateTenant struct {
	TenantID string
}

type DeactivateTenant struct {
	TenantID string
}

type OpenAccount struct {
	AccountID           string
	Name                string
	Type                string
	InitialBalanceCents *int64
	Currency            string
	AccountNumber       string
	Institution         string
	Notes               string
}

type RecordTransaction struct {
	TransactionID string
	AccountID     string
	Description   string
	AmountCents   int64
	Type          string
	Category      string
	Date          time.Time
	ScheduledDate *time.Time
	Notes         string
}

// UpdateTransaction patches a recorded transaction. Nil fields stay
// untouched; a present-but-zero amount is a validation error.
type UpdateTransaction struct {
	TransactionID string
	Description   *string
	AmountCents   *int64
	Category      *string
	Date          *time.Time
	ScheduledDate *time.Time
	Notes         *string
}

func (c CreateTenant) AggregateID() string      { return c.TenantID }
func (c UpdateTenant) AggregateID() string      { return c.TenantID }
func (c ActivateTenant) AggregateID() string    { return c.TenantID }
func (c DeactivateTenant) AggregateID() string  { return c.TenantID }
func (c OpenAccount) AggregateID() string       { return c.AccountID }
func (c RecordTransaction) AggregateID() string { return c.TransactionID }
func (c UpdateTransaction) AggregateID() string { return c.TransactionID }

func (CreateTenant) isCommand()      {}
func (UpdateTenant) isCommand()      {}
func (ActivateTenant) isCommand()    {}
func (DeactivateTenant) isCommand()  {}
func (OpenAccount) isCommand()       {}
func (RecordTransaction) isCommand() {}
func (UpdateTransaction) isCommand() {}

// IsCreation reports whether the command may only target an aggregate with
// no prior history.
func IsCreation(c Command) bool {
	switch c.(type) {
	case CreateTenant, OpenAccount, RecordTransaction:
		return true
	case UpdateTenant, ActivateTenant, DeactivateTenant, UpdateTransaction:
		return false
	}
	return false
}
