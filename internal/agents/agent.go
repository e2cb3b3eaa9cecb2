package agents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/angrysky56/esaf-framework-sub001/internal/analysis"
	"github.com/angrysky56/esaf-framework-sub001/internal/session"
)

// ErrUnknownAgent is returned when a name has no registration.
var ErrUnknownAgent = errors.New("unknown agent")

// Agent is one analysis module: a name, a human description, and an Analyze
// that reads the session and returns an immutable result.
type Agent interface {
	Name() string
	Description() string
	Analyze(ctx context.Context, sess *session.Session, query string) (analysis.Result, error)
}

// State is an agent's lifecycle phase.
type State string

const (
	StateIdle  State = "idle"
	StateBusy  State = "busy"
	StateError State = "error"
)

// Status is one agent's current state with its transition time.
type Status struct {
	State     State
	UpdatedAt time.Time
}

// Registry holds agents in registration order plus their statuses and the
// shared task list. Like the session it is single-owner and unsynchronized;
// hosts serialize calls.
type Registry struct {
	log    *zap.Logger
	order  []string
	agents map[string]Agent
	status map[string]Status
	tasks  map[string]string
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithLogger routes registry diagnostics to the given logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// NewRegistry builds a registry preloaded with the built-in agents: anomaly,
// features, quality, bayes.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		log:    zap.NewNop(),
		agents: make(map[string]Agent),
		status: make(map[string]Status),
		tasks:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, ag := range []Agent{
		NewAnomalyAgent(),
		NewFeaturesAgent(),
		NewQualityAgent(),
		NewBayesAgent(),
	} {
		// built-in names never collide
		_ = r.Register(ag)
	}
	return r
}

// Register adds an agent. Names are unique; a duplicate is an error.
func (r *Registry) Register(ag Agent) error {
	name := ag.Name()
	if _, exists := r.agents[name]; exists {
		return fmt.Errorf("agent %q already registered", name)
	}
	r.agents[name] = ag
	r.order = append(r.order, name)
	r.status[name] = Status{State: StateIdle, UpdatedAt: time.Now()}
	return nil
}

// Get looks up an agent by name.
func (r *Registry) Get(name string) (Agent, bool) {
	ag, ok := r.agents[name]
	return ag, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Agents returns the registered agents in registration order.
func (r *Registry) Agents() []Agent {
	out := make([]Agent, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.agents[name])
	}
	return out
}

// Statuses returns a snapshot of every agent's status.
func (r *Registry) Statuses() map[string]Status {
	out := make(map[string]Status, len(r.status))
	for name, st := range r.status {
		out[name] = st
	}
	return out
}

func (r *Registry) setState(name string, st State) {
	r.status[name] = Status{State: st, UpdatedAt: time.Now()}
}

// AddTask records a pending unit of work under an id.
func (r *Registry) AddTask(id, data string) {
	r.tasks[id] = data
}

// RemoveTask deletes a task; false when the id is unknown.
func (r *Registry) RemoveTask(id string) bool {
	if _, ok := r.tasks[id]; !ok {
		return false
	}
	delete(r.tasks, id)
	return true
}

// Tasks returns a snapshot of the pending tasks.
func (r *Registry) Tasks() map[string]string {
	out := make(map[string]string, len(r.tasks))
	for id, data := range r.tasks {
		out[id] = data
	}
	return out
}

// Run executes one agent against the session. The agent goes busy for the
// duration, ends idle on success or error on failure, and successful results
// are recorded in the session ledger before returning.
func (r *Registry) Run(ctx context.Context, sess *session.Session, name, query string) (analysis.Result, error) {
	ag, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("agent %q: %w", name, ErrUnknownAgent)
	}
	r.setState(name, StateBusy)
	r.log.Debug("agent started", zap.String("agent", name), zap.String("query", query))

	res, err := ag.Analyze(ctx, sess, query)
	if err != nil {
		r.setState(name, StateError)
		r.log.Warn("agent failed", zap.String("agent", name), zap.Error(err))
		return nil, fmt.Errorf("agent %s: %w", name, err)
	}
	r.setState(name, StateIdle)
	sess.RecordResult(name, query, res)
	r.log.Debug("agent finished", zap.String("agent", name), zap.String("result", res.Kind()))
	return res, nil
}
