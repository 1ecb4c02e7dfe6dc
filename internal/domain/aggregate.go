package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// AggregateKind identifies which state machine an aggregate id belongs to.
type AggregateKind string

const (
	KindTenant      AggregateKind = "tenant"
	KindAccount     AggregateKind = "account"
	KindTransaction AggregateKind = "transaction"
)

// Aggregate is a consistency boundary rebuilt by folding its event history.
// Apply must be a pure fold step; Decide validates a command against current
// state and returns the resulting events without mutating anything.
type Aggregate interface {
	Kind() AggregateKind
	Apply(e Event)
	Decide(c Command, now time.Time) ([]Event, error)
}

// NewAggregate returns the empty (absent) state for a kind.
func NewAggregate(kind AggregateKind) (Aggregate, error) {
	switch kind {
	case KindTenant:
		return &Tenant{}, nil
	case KindAccount:
		return &Account{}, nil
	case KindTransaction:
		return &Transaction{}, nil
	}
	return nil, fmt.Errorf("unknown aggregate kind %q", kind)
}

// KindOf routes a command to its aggregate kind.
func KindOf(c Command) AggregateKind {
	switch c.(type) {
	case CreateTenant, UpdateTenant, ActivateTenant, DeactivateTenant:
		return KindTenant
	case OpenAccount:
		return KindAccount
	case RecordTransaction, UpdateTransaction:
		return KindTransaction
	}
	return ""
}

// MarshalSnapshot serializes aggregate state for the snapshot store.
func MarshalSnapshot(a Aggregate) ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal %s snapshot: %w", a.Kind(), err)
	}
	return data, nil
}

// UnmarshalSnapshot restores aggregate state from a snapshot payload.
func UnmarshalSnapshot(kind AggregateKind, data []byte) (Aggregate, error) {
	agg, err := NewAggregate(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, agg); err != nil {
		return nil, fmt.Errorf("unmarshal %s snapshot: %w", kind, err)
	}
	return agg, nil
}
