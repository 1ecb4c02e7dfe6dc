// Package saga hosts process managers: correlated, stateful listeners that
// turn observed events into follow-up commands to complete multi-step
// workflows.
package saga

import (
	"context"
	"sync"

	"github.com/elissongarcia/personal-finance-management/internal/domain"
	"github.com/elissongarcia/personal-finance-management/internal/eventlog"
	"go.uber.org/zap"
)

// Dispatcher submits a follow-up command. The command's own validation is
// authoritative; a workflow never re-validates business rules itself.
// Injected explicitly so workflows stay testable with a fake.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd domain.Command) error
}

// Workflow declares one saga shape: which event starts an instance, how
// events correlate to it, how it reacts, and which event ends it.
type Workflow interface {
	Name() string
	// Correlate extracts the correlation key; ok is false for events this
	// workflow does not observe.
	Correlate(e domain.Event) (key string, ok bool)
	Starts(e domain.Event) bool
	Ends(e domain.Event) bool
	React(ctx context.Context, e domain.Event, d Dispatcher) error
}

// Instance is the per-correlation-key state of one running workflow.
type Instance struct {
	Key   string
	Ended bool
}

// Manager owns all saga instances and routes delivered events to them. At
// most one live instance exists per (workflow, correlation key); a second
// starting event for a live key is ignored.
type Manager struct {
	dispatcher Dispatcher
	workflows  []Workflow

	mu        sync.Mutex
	instances map[string]map[string]*Instance

	errs chan error
	log  *zap.Logger
}

func NewManager(d Dispatcher, log *zap.Logger, workflows ...Workflow) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		dispatcher: d,
		workflows:  workflows,
		instances:  make(map[string]map[string]*Instance),
		errs:       make(chan error, 64),
		log:        log,
	}
	for _, wf := range workflows {
		m.instances[wf.Name()] = make(map[string]*Instance)
	}
	return m
}

func (m *Manager) Name() string { return "saga" }

// Errs exposes dispatch failures. Failures never fail the event delivery
// that triggered them; an undispatchable command leaves its instance open.
func (m *Manager) Errs() <-chan error { return m.errs }

// Lookup returns a copy of the instance for a workflow and key, if any.
func (m *Manager) Lookup(workflow, key string) (Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[workflow][key]
	if !ok {
		return Instance{}, false
	}
	return *inst, true
}

func (m *Manager) HandleRecord(ctx context.Context, rec eventlog.Record) error {
	e, err := domain.UnmarshalEvent(rec.Kind, rec.Payload)
	if err != nil {
		return err
	}
	for _, wf := range m.workflows {
		key, ok := wf.Correlate(e)
		if !ok {
			continue
		}
		m.advance(ctx, wf, key, e)
	}
	return nil
}

func (m *Manager) advance(ctx context.Context, wf Workflow, key string, e domain.Event) {
	m.mu.Lock()
	byKey := m.instances[wf.Name()]
	inst, live := byKey[key]
	if live && inst.Ended {
		live = false
	}
	switch {
	case !live && wf.Starts(e):
		inst = &Instance{Key: key}
		byKey[key] = inst
	case !live:
		// Event for a key with no running instance: nothing to advance.
		m.mu.Unlock()
		return
	case wf.Starts(e):
		// Duplicate starting event for a live instance.
		m.mu.Unlock()
		m.log.Warn("ignoring duplicate saga start",
			zap.String("workflow", wf.Name()), zap.String("key", key))
		return
	}
	m.mu.Unlock()

	if err := wf.React(ctx, e, m.dispatcher); err != nil {
		m.report(wf, key, err)
	}

	if wf.Ends(e) {
		m.mu.Lock()
		inst.Ended = true
		m.mu.Unlock()
	}
}

func (m *Manager) report(wf Workflow, key string, err error) {
	m.log.Error("saga dispatch failed",
		zap.String("workflow", wf.Name()), zap.String("key", key), zap.Error(err))
	select {
	case m.errs <- err:
	default:
		// Channel full: the log line above is the durable trace.
	}
}
