// Package agent implements the bounded ReAct-style tool-calling loop:
// send messages + tool schemas, execute any returned tool calls, feed
// results back, and repeat until a plain reply or the iteration budget is
// exhausted.
package agent

import (
	"sync"

	"github.com/helios-engine/helios/pkg/chat"
	"github.com/helios-engine/helios/pkg/llm"
	"github.com/helios-engine/helios/pkg/tool"
)

// ID identifies an Agent within a Forest roster.
type ID string

// DefaultMaxIterations is used when a Builder does not set one explicitly,
// matching spec.md §4.3's recommendation of "a small positive integer
// (recommended 5-10)".
const DefaultMaxIterations = 8

// Agent is an LLM wrapped in a bounded tool-calling loop with its own
// conversation. Agents are created by a Builder, owned by a Forest for its
// lifetime, and destroyed with it; callers must not run Chat on the same
// Agent from two goroutines concurrently (spec.md §5: "concurrent runs of
// the same agent are forbidden").
type Agent struct {
	name          ID
	session       *chat.Session
	tools         *tool.Registry
	transport     llm.Transport
	maxIterations int
	systemPrompt  string

	memMu  sync.RWMutex
	memory map[string]string

	runMu sync.Mutex
}

// Name returns the agent's ID within its Forest roster.
func (a *Agent) Name() ID { return a.name }

// Session exposes the agent's conversation log (read-mostly; tools that
// need to inspect history do so through this).
func (a *Agent) Session() *chat.Session { return a.session }

// Tools exposes the agent's tool registry.
func (a *Agent) Tools() *tool.Registry { return a.tools }

// MaxIterations returns the configured iteration budget.
func (a *Agent) MaxIterations() int { return a.maxIterations }

// Memory reads a session-memory key. Memory is orthogonal to the message
// log: it is never sent to the LLM automatically.
func (a *Agent) Memory(key string) (string, bool) {
	a.memMu.RLock()
	defer a.memMu.RUnlock()
	v, ok := a.memory[key]
	return v, ok
}

// SetMemory writes a session-memory key.
func (a *Agent) SetMemory(key, value string) {
	a.memMu.Lock()
	defer a.memMu.Unlock()
	a.memory[key] = value
}

// Builder constructs an Agent with sane defaults, in the style of the
// teacher's llmagent.Config + factory pattern.
type Builder struct {
	name          ID
	transport     llm.Transport
	tools         *tool.Registry
	maxIterations int
	systemPrompt  string
}

// NewBuilder starts building an Agent named name that talks through
// transport.
func NewBuilder(name ID, transport llm.Transport) *Builder {
	return &Builder{
		name:          name,
		transport:     transport,
		maxIterations: DefaultMaxIterations,
	}
}

// WithTools sets the tool registry the agent's loop will advertise to the
// LLM and dispatch tool calls against. A nil registry is treated as empty.
func (b *Builder) WithTools(tools *tool.Registry) *Builder {
	b.tools = tools
	return b
}

// WithMaxIterations overrides the iteration budget. 0 is not permitted
// (spec.md §4.3) and is silently corrected to DefaultMaxIterations.
func (b *Builder) WithMaxIterations(n int) *Builder {
	if n <= 0 {
		n = DefaultMaxIterations
	}
	b.maxIterations = n
	return b
}

// WithSystemPrompt seeds the session with a system message.
func (b *Builder) WithSystemPrompt(prompt string) *Builder {
	b.systemPrompt = prompt
	return b
}

// Build finalizes the Agent.
func (b *Builder) Build() *Agent {
	tools := b.tools
	if tools == nil {
		tools = tool.NewRegistry()
	}
	return &Agent{
		name:          b.name,
		session:       chat.NewSessionWithSystemPrompt(b.systemPrompt),
		tools:         tools,
		transport:     b.transport,
		maxIterations: b.maxIterations,
		systemPrompt:  b.systemPrompt,
		memory:        make(map[string]string),
	}
}
