package saga

import (
	"context"

	"github.com/elissongarcia/personal-finance-management/internal/domain"
)

// TenantCreation activates every tenant right after creation: it starts on
// TenantCreated, dispatches ActivateTenant for the same tenant, and ends
// when the matching TenantActivated is observed. If the activation command
// is rejected because the tenant is already in the desired state, the
// eventual TenantActivated-shaped terminal event still ends the instance;
// the workflow does not distinguish the two outcomes.
type TenantCreation struct{}

func (TenantCreation) Name() string { return "tenant-creation" }

func (TenantCreation) Correlate(e domain.Event) (string, bool) {
	switch ev := e.(type) {
	case domain.TenantCreated:
		return ev.TenantID, true
	case domain.TenantActivated:
		return ev.TenantID, true
	}
	return "", false
}

func (TenantCreation) Starts(e domain.Event) bool {
	_, ok := e.(domain.TenantCreated)
	return ok
}

func (TenantCreation) Ends(e domain.Event) bool {
	_, ok := e.(domain.TenantActivated)
	return ok
}

func (TenantCreation) React(ctx context.Context, e domain.Event, d Dispatcher) error {
	if ev, ok := e.(domain.TenantCreated); ok {
		return d.Dispatch(ctx, domain.ActivateTenant{TenantID: ev.TenantID})
	}
	return nil
}

// TenantReactivation is a single-step observational workflow: it starts and
// ends on the same TenantActivated event. It exists as the hook point for
// post-activation side effects (notifications, syncing external systems).
type TenantReactivation struct{}

func (TenantReactivation) Name() string { return "tenant-reactivation" }

func (TenantReactivation) Correlate(e domain.Event) (string, bool) {
	if ev, ok := e.(domain.TenantActivated); ok {
		return ev.TenantID, true
	}
	return "", false
}

func (TenantReactivation) Starts(e domain.Event) bool {
	_, ok := e.(domain.TenantActivated)
	return ok
}

func (TenantReactivation) Ends(e domain.Event) bool {
	_, ok := e.(domain.TenantActivated)
	return ok
}

func (TenantReactivation) React(ctx context.Context, e domain.Event, d Dispatcher) error {
	return nil
}
