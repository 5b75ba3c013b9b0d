package task

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Plan is a DAG of Items keyed by id, with insertion order preserved for
// stable iteration (spec.md §3: "task_order is a permutation of
// tasks.keys()").
type Plan struct {
	mu        sync.Mutex
	PlanID    string
	Objective string
	CreatedAt time.Time

	tasks     map[string]*Item
	taskOrder []string
}

// NewPlan creates an empty plan for objective.
func NewPlan(objective string) *Plan {
	return &Plan{
		PlanID:    uuid.NewString(),
		Objective: objective,
		CreatedAt: time.Now(),
		tasks:     make(map[string]*Item),
	}
}

// AddTask inserts item, validating spec.md §3's TaskItem/TaskPlan
// invariants: unique id, every dependency must already exist in the plan,
// no self-dependency, and the resulting graph must stay acyclic. On
// success item is appended to task_order.
func (p *Plan) AddTask(item Item) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if item.ID == "" {
		return &InvalidPlan{Reason: "task id cannot be empty"}
	}
	if _, exists := p.tasks[item.ID]; exists {
		return &InvalidPlan{Reason: "duplicate task id " + item.ID}
	}
	for _, dep := range item.Dependencies {
		if dep == item.ID {
			return &InvalidPlan{Reason: "task " + item.ID + " cannot depend on itself"}
		}
		if _, ok := p.tasks[dep]; !ok {
			return &InvalidPlan{Reason: "task " + item.ID + " depends on unknown task " + dep}
		}
	}
	if item.Status == "" {
		item.Status = StatusPending
	}

	stored := item.clone()
	p.tasks[item.ID] = &stored

	if p.hasCycleFrom(item.ID) {
		delete(p.tasks, item.ID)
		return &InvalidPlan{Reason: "adding task " + item.ID + " would create a dependency cycle"}
	}

	p.taskOrder = append(p.taskOrder, item.ID)
	return nil
}

// hasCycleFrom runs a DFS from start over the dependency edges (start
// depends on start's Dependencies) to detect a cycle reachable from start.
// Must be called with mu held.
func (p *Plan) hasCycleFrom(start string) bool {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(p.tasks))

	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case visiting:
			return true
		case done:
			return false
		}
		state[id] = visiting
		item := p.tasks[id]
		if item != nil {
			for _, dep := range item.Dependencies {
				if visit(dep) {
					return true
				}
			}
		}
		state[id] = done
		return false
	}

	return visit(start)
}

// Get returns a copy of the task registered under id.
func (p *Plan) Get(id string) (Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, ok := p.tasks[id]
	if !ok {
		return Item{}, false
	}
	return item.clone(), true
}

// Mutate applies fn to the stored task under id while holding the plan's
// lock, enforcing the monotone status transition invariant. It is the
// plan-local equivalent of spec.md's get_mut.
func (p *Plan) Mutate(id string, fn func(*Item)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.tasks[id]
	if !ok {
		return &InvalidPlan{Reason: "unknown task id " + id}
	}

	before := item.Status
	fn(item)
	if item.Status != before && !before.canTransition(item.Status) {
		item.Status = before
		return &InvalidPlan{Reason: "illegal status transition for task " + id}
	}
	return nil
}

// TasksInOrder returns every task in insertion order.
func (p *Plan) TasksInOrder() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Item, 0, len(p.taskOrder))
	for _, id := range p.taskOrder {
		out = append(out, p.tasks[id].clone())
	}
	return out
}

// Progress returns (completedCount, totalCount) where completed counts any
// task in a terminal state (Completed or Failed).
func (p *Plan) Progress() (completed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	total = len(p.taskOrder)
	for _, id := range p.taskOrder {
		if p.tasks[id].Status.IsTerminal() {
			completed++
		}
	}
	return completed, total
}

// IsComplete reports whether every task is in a terminal state. A plan with
// zero tasks is vacuously complete.
func (p *Plan) IsComplete() bool {
	completed, total := p.Progress()
	return completed == total
}

// NextReady returns up to limit Pending tasks whose every dependency is
// Completed, in insertion order. A task depending on a Failed upstream task
// is considered dependency-satisfied for scheduling purposes (spec.md §4.5)
// — callers implementing the cascade-fail policy should fail such tasks
// before dispatching them; see forest.Policy.
func (p *Plan) NextReady(limit int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var ready []string
	for _, id := range p.taskOrder {
		if limit > 0 && len(ready) >= limit {
			break
		}
		item := p.tasks[id]
		if item.Status != StatusPending {
			continue
		}
		if p.dependenciesSatisfied(item) {
			ready = append(ready, id)
		}
	}
	return ready
}

// dependenciesSatisfied reports whether every dependency of item is in a
// terminal state (Completed or Failed) — ready for dispatch, or ready to be
// cascade-failed by the orchestrator. Must be called with mu held.
func (p *Plan) dependenciesSatisfied(item *Item) bool {
	for _, dep := range item.Dependencies {
		depItem, ok := p.tasks[dep]
		if !ok || !depItem.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// HasFailedDependency reports whether any dependency of id is Failed.
func (p *Plan) HasFailedDependency(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.tasks[id]
	if !ok {
		return false
	}
	for _, dep := range item.Dependencies {
		if d, ok := p.tasks[dep]; ok && d.Status == StatusFailed {
			return true
		}
	}
	return false
}
