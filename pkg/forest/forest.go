// Package forest implements the Forest orchestrator: a planning agent
// decomposes a goal into a TaskPlan, the orchestrator dispatches ready
// tasks to worker agents round by round, and the coordinator synthesizes
// the final answer (spec.md §4.6). This is the Forest/Agent-Loop/TaskPlan
// machinery spec.md calls "the hardest engineering in the repository".
package forest

import (
	"github.com/helios-engine/helios/internal/telemetry"
	"github.com/helios-engine/helios/pkg/agent"
	"github.com/helios-engine/helios/pkg/sharedcontext"
)

// Forest is a named collection of agents plus a shared context, executed as
// a unit (spec.md §GLOSSARY).
type Forest struct {
	name         string
	agents       map[agent.ID]*agent.Agent
	order        []agent.ID
	coordinator  agent.ID
	hasCoord     bool
	shared       *sharedcontext.Context
	policy       Policy
	metrics      *telemetry.Metrics
	descriptions map[agent.ID]string
}

// Builder constructs a Forest.
type Builder struct {
	name         string
	agents       map[agent.ID]*agent.Agent
	order        []agent.ID
	coordinator  agent.ID
	hasCoord     bool
	policy       Policy
	metrics      *telemetry.Metrics
	shared       *sharedcontext.Context
	descriptions map[agent.ID]string
}

// NewBuilder starts building a Forest named name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:         name,
		agents:       make(map[agent.ID]*agent.Agent),
		policy:       DefaultPolicy(),
		descriptions: make(map[agent.ID]string),
	}
}

// WithSharedContext installs a pre-built shared context — required whenever
// the coordinator or workers carry planning/memory tools (those tools are
// bound to a *sharedcontext.Context at agent-construction time, which
// necessarily happens before the Forest itself is built). Build creates a
// fresh, empty context automatically if this is never called.
func (b *Builder) WithSharedContext(ctx *sharedcontext.Context) *Builder {
	b.shared = ctx
	return b
}

// WithAgent registers a into the Forest's roster, keyed by a.Name().
// description seeds the coordinator's planning prompt roster and may be
// empty.
func (b *Builder) WithAgent(a *agent.Agent, description string) *Builder {
	id := a.Name()
	if _, exists := b.agents[id]; !exists {
		b.order = append(b.order, id)
	}
	b.agents[id] = a
	b.descriptions[id] = description
	return b
}

// WithCoordinator designates id (which must already be registered via
// WithAgent) as the coordinator.
func (b *Builder) WithCoordinator(id agent.ID) *Builder {
	b.coordinator = id
	b.hasCoord = true
	return b
}

// WithPolicy overrides the default Policy.
func (b *Builder) WithPolicy(p Policy) *Builder {
	b.policy = p
	return b
}

// WithMetrics attaches a Metrics collector; nil disables metrics.
func (b *Builder) WithMetrics(m *telemetry.Metrics) *Builder {
	b.metrics = m
	return b
}

// Build finalizes the Forest.
func (b *Builder) Build() *Forest {
	shared := b.shared
	if shared == nil {
		shared = sharedcontext.New()
	}
	return &Forest{
		name:         b.name,
		agents:       b.agents,
		order:        append([]agent.ID(nil), b.order...),
		coordinator:  b.coordinator,
		hasCoord:     b.hasCoord,
		shared:       shared,
		policy:       b.policy,
		metrics:      b.metrics,
		descriptions: b.descriptions,
	}
}

// Name returns the Forest's name.
func (f *Forest) Name() string { return f.name }

// Shared returns the Forest's shared context handle.
func (f *Forest) Shared() *sharedcontext.Context { return f.shared }

// Agent returns the agent registered under id.
func (f *Forest) Agent(id agent.ID) (*agent.Agent, bool) {
	a, ok := f.agents[id]
	return a, ok
}

// Roster returns every registered agent id in registration order.
func (f *Forest) Roster() []agent.ID {
	return append([]agent.ID(nil), f.order...)
}

// firstWorker returns the first non-coordinator agent in registration
// order, used for the single-task fallback plan (spec.md §4.6 phase 1).
func (f *Forest) firstWorker() (agent.ID, bool) {
	for _, id := range f.order {
		if !f.hasCoord || id != f.coordinator {
			return id, true
		}
	}
	return "", false
}
