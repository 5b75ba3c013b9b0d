// Package sharedcontext implements the Forest's blackboard: a lock-guarded
// free-form data store, a broadcast/direct message log, and the current
// TaskPlan, shared by reference across every agent in one Forest.
//
// Every accessor acquires the same exclusive lock for the duration of the
// mutation (or a brief copy-out for reads) and releases it before
// returning — the lock is never held across an LLM call or a tool
// Execute (spec.md §5).
package sharedcontext

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/helios-engine/helios/pkg/agent"
	"github.com/helios-engine/helios/pkg/task"
)

// Context is the Forest's shared blackboard.
type Context struct {
	mu       sync.Mutex
	data     map[string]any
	messages []Message
	metadata map[string]string
	plan     *task.Plan
}

// New creates an empty Context.
func New() *Context {
	return &Context{
		data:     make(map[string]any),
		metadata: make(map[string]string),
	}
}

// Set stores value under key.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// Get retrieves the value stored under key.
func (c *Context) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

// Merge copies every key in updates into the data store, overwriting
// existing keys.
func (c *Context) Merge(updates map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range updates {
		c.data[k] = v
	}
}

// SetMetadata stores a string metadata key.
func (c *Context) SetMetadata(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata[key] = value
}

// AddMessage appends msg to the message history.
func (c *Context) AddMessage(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

// MessagesFor returns every message visible to id: every broadcast plus
// every message addressed directly to id, in append order.
func (c *Context) MessagesFor(id agent.ID) []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Message, 0, len(c.messages))
	for _, m := range c.messages {
		if m.visibleTo(id) {
			out = append(out, m)
		}
	}
	return out
}

// SetPlan installs plan as the current TaskPlan, replacing any previous one.
func (c *Context) SetPlan(plan *task.Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plan = plan
}

// Plan returns the current TaskPlan, if one has been set.
func (c *Context) Plan() (*task.Plan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan, c.plan != nil
}

// WithPlanMut runs fn against the current plan while holding the context's
// lock for the duration of the call, the guarded-mutation pattern spec.md
// §4.4 calls for. fn receives nil if no plan has been set yet. fn must not
// itself call an LLM transport or a tool Execute — Plan's own operations
// take a second, narrower lock internally and never block on I/O, so
// calling into the plan from within fn cannot deadlock.
func (c *Context) WithPlanMut(fn func(p *task.Plan)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.plan)
}

// Summary renders a compact, human-readable snapshot used to seed worker
// prompts: objective, per-task status, dependencies, and recent results
// (spec.md §4.4).
func (c *Context) Summary() string {
	c.mu.Lock()
	plan := c.plan
	c.mu.Unlock()

	if plan == nil {
		return "No plan has been created yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Objective: %s\n", plan.Objective)

	items := plan.TasksInOrder()
	completed, total := plan.Progress()
	fmt.Fprintf(&b, "Progress: %d/%d tasks terminal\n", completed, total)

	for _, item := range items {
		deps := "none"
		if len(item.Dependencies) > 0 {
			sorted := append([]string(nil), item.Dependencies...)
			sort.Strings(sorted)
			deps = strings.Join(sorted, ", ")
		}
		fmt.Fprintf(&b, "- [%s] %s (assigned: %s, depends on: %s)", item.ID, item.Status, item.AssignedTo, deps)
		if item.Result != nil && *item.Result != "" {
			fmt.Fprintf(&b, " result: %s", truncate(*item.Result, 200))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
