package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is the closed set of facts this system records. Every variant is an
// immutable value; adding a variant requires updating the exhaustive switches
// in the codec below, the aggregate folds, the projection synchronizer and
// the sagas, so the compiler and tests flag every consumer.
type Event interface {
	AggregateID() string
	// OccurredAt is stamped once, when the command handler creates the
	// event. Folds read it instead of the wall clock so replay stays
	// deterministic.
	OccurredAt() time.Time
	isEvent()
}

// Event kind tags as persisted in the log. Revision bumps when a payload
// shape changes incompatibly.
const (
	KindTenantCreated       = "tenant.created"
	KindTenantUpdated       = "tenant.updated"
	KindTenantActivated     = "tenant.activated"
	KindTenantDeactivated   = "tenant.deactivated"
	KindAccountOpened       = "account.opened"
	KindTransactionRecorded = "transaction.recorded"
	KindTransactionUpdated  = "transaction.updated"
)

const EventRevision = "1"

type TenantCreated struct {
	TenantID string    `json:"tenant_id"`
	Name     string    `json:"name"`
	Domain   string    `json:"domain"`
	Email    string    `json:"email"`
	At       time.Time `json:"at"`
}

type TenantUpdated struct {
	TenantID string    `json:"tenant_id"`
	Name     string    `json:"name"`
	Domain   string    `json:"domain"`
	Email    string    `json:"email"`
	At       time.Time `json:"at"`
}

type TenantActivated struct {
	TenantID string    `json:"tenant_id"`
	At       time.Time `json:"at"`
}

type TenantDeactivated struct {
	TenantID string    `json:"tenant_id"`
	At       time.Time `json:"at"`
}

type AccountOpened struct {
	AccountID           string    `json:"account_id"`
	Name                string    `json:"name"`
	Type                string    `json:"type"`
	InitialBalanceCents int64     `json:"initial_balance_cents"`
	Currency            string    `json:"currency"`
	AccountNumber       string    `json:"account_number"`
	Institution         string    `json:"institution"`
	Notes               string    `json:"notes"`
	At                  time.Time `json:"at"`
}

type TransactionRecorded struct {
	TransactionID string     `json:"transaction_id"`
	AccountID     string     `json:"account_id"`
	Description   string     `json:"description"`
	AmountCents   int64      `json:"amount_cents"`
	Type          string     `json:"type"`
	Category      string     `json:"category"`
	Date          time.Time  `json:"date"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Notes         string     `json:"notes"`
	At            time.Time  `json:"at"`
}

// TransactionUpdated carries a partial patch: nil fields were absent from the
// originating command and leave the aggregate unchanged.
type TransactionUpdated struct {
	TransactionID string     `json:"transaction_id"`
	Description   *string    `json:"description,omitempty"`
	AmountCents   *int64     `json:"amount_cents,omitempty"`
	Category      *string    `json:"category,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	At            time.Time  `json:"at"`
}

func (e TenantCreated) AggregateID() string       { return e.TenantID }
func (e TenantUpdated) AggregateID() string       { return e.TenantID }
func (e TenantActivated) AggregateID() string     { return e.TenantID }
func (e TenantDeactivated) AggregateID() string   { return e.TenantID }
func (e AccountOpened) AggregateID() string       { return e.AccountID }
func (e TransactionRecorded) AggregateID() string { return e.TransactionID }
func (e TransactionUpdated) AggregateID() string  { return e.TransactionID }

func (e TenantCreated) OccurredAt() time.Time       { return e.At }
func (e TenantUpdated) OccurredAt() time.Time       { return e.At }
func (e TenantActivated) OccurredAt() time.Time     { return e.At }
func (e TenantDeactivated) OccurredAt() time.Time   { return e.At }
func (e AccountOpened) OccurredAt() time.Time       { return e.At }
func (e TransactionRecorded) OccurredAt() time.Time { return e.At }
func (e TransactionUpdated) OccurredAt() time.Time  { return e.At }

func (TenantCreated) isEvent()       {}
func (TenantUpdated) isEvent()       {}
func (TenantActivated) isEvent()     {}
func (TenantDeactivated) isEvent()   {}
func (AccountOpened) isEvent()       {}
func (TransactionRecorded) isEvent() {}
func (TransactionUpdated) isEvent()  {}

// MarshalEvent encodes an event for the log and returns its kind tag.
func MarshalEvent(e Event) (kind string, payload []byte, err error) {
	switch e.(type) {
	case TenantCreated:
		kind = KindTenantCreated
	case TenantUpdated:
		kind = KindTenantUpdated
	case TenantActivated:
		kind = KindTenantActivated
	case TenantDeactivated:
		kind = KindTenantDeactivated
	case AccountOpened:
		kind = KindAccountOpened
	case TransactionRecorded:
		kind = KindTransactionRecorded
	case TransactionUpdated:
		kind = KindTransactionUpdated
	default:
		return "", nil, fmt.Errorf("marshal event %T: %w", e, ErrUnknownEvent)
	}
	payload, err = json.Marshal(e)
	if err != nil {
		return "", nil, fmt.Errorf("marshal event %s: %w", kind, err)
	}
	return kind, payload, nil
}

// UnmarshalEvent decodes a stored payload back into its typed variant.
func UnmarshalEvent(kind string, payload []byte) (Event, error) {
	var (
		e   Event
		err error
	)
	switch kind {
	case KindTenantCreated:
		var v TenantCreated
		err = json.Unmarshal(payload, &v)
		e = v
	case KindTenantUpdated:
		var v TenantUpdated
		err = json.Unmarshal(payload, &v)
		e = v
	case KindTenantActivated:
		var v TenantActivated
		err = json.Unmarshal(payload, &v)
		e = v
	case KindTenantDeactivated:
		var v TenantDeactivated
		err = json.Unmarshal(payload, &v)
		e = v
	case KindAccountOpened:
		var v AccountOpened
		err = json.Unmarshal(payload, &v)
		e = v
	case KindTransactionRecorded:
		var v TransactionRecorded
		err = json.Unmarshal(payload, &v)
		e = v
	case KindTransactionUpdated:
		var v TransactionUpdated
		err = json.Unmarshal(payload, &v)
		e = v
	default:
		return nil, fmt.Errorf("unmarshal event %q: %w", kind, ErrUnknownEvent)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal event %q: %w", kind, err)
	}
	return e, nil
}
