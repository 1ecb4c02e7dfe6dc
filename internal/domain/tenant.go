package domain

import "time"

type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)

// Tenant is an organization using the ledger. The zero value is the absent
// state: Status is empty until a TenantCreated event is applied.
type Tenant struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Domain    string       `json:"domain"`
	Email     string       `json:"email"`
	Status    TenantStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (t *Tenant) Kind() AggregateKind { return KindTenant }

func (t *Tenant) Apply(e Event) {
	switch ev := e.(type) {
	case TenantCreated:
		t.ID = ev.TenantID
		t.Name = ev.Name
		t.Domain = ev.Domain
		t.Email = ev.Email
		t.Status = TenantStatusActive
		t.CreatedAt = ev.At
		t.UpdatedAt = ev.At
	case TenantUpdated:
		t.Name = ev.Name
		t.Domain = ev.Domain
		t.Email = ev.Email
		t.UpdatedAt = ev.At
	case TenantActivated:
		t.Status = TenantStatusActive
		t.UpdatedAt = ev.At
	case TenantDeactivated:
		t.Status = TenantStatusInactive
		t.UpdatedAt = ev.At
	}
}

func (t *Tenant) Decide(c Command, now time.Time) ([]Event, error) {
	switch cmd := c.(type) {
	case CreateTenant:
		if cmd.Name == "" {
			return nil, validationErr("tenant name is required")
		}
		if cmd.Domain == "" {
			return nil, validationErr("tenant domain is required")
		}
		if cmd.Email == "" {
			return nil, validationErr("tenant email is required")
		}
		return []Event{TenantCreated{
			TenantID: cmd.TenantID,
			Name:     cmd.Name,
			Domain:   cmd.Domain,
			Email:    cmd.Email,
			At:       now,
		}}, nil
	case UpdateTenant:
		return []Event{TenantUpdated{
			TenantID: cmd.TenantID,
			Name:     cmd.Name,
			Domain:   cmd.Domain,
			Email:    cmd.Email,
			At:       now,
		}}, nil
	case ActivateTenant:
		if t.Status == TenantStatusActive {
			return nil, validationErr("tenant is already active")
		}
		return []Event{TenantActivated{TenantID: cmd.TenantID, At: now}}, nil
	case DeactivateTenant:
		if t.Status == TenantStatusInactive {
			return nil, validationErr("tenant is already inactive")
		}
		return []Event{TenantDeactivated{TenantID: cmd.TenantID, At: now}}, nil
	}
	return nil, validationErr("command %T does not target a tenant", c)
}
