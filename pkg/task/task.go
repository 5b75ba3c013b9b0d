// Package task implements the DAG of work a Forest executes: TaskItems
// keyed by id, insertion-ordered, with dependency-aware readiness and
// progress queries.
package task

import "github.com/helios-engine/helios/pkg/agent"

// Item is one unit of work in a Plan.
//
// Invariants (enforced by Plan.AddTask, not by Item itself): every id in
// Dependencies exists in the same plan, no self-dependency, and the
// resulting dependency graph is acyclic.
type Item struct {
	ID           string
	Description  string
	AssignedTo   agent.ID
	Status       Status
	Result       *string
	Dependencies []string
	Metadata     map[string]string
}

// clone returns a deep-enough copy of the item for safe external exposure
// from under Plan's lock.
func (i Item) clone() Item {
	out := i
	if i.Result != nil {
		r := *i.Result
		out.Result = &r
	}
	if i.Dependencies != nil {
		out.Dependencies = append([]string(nil), i.Dependencies...)
	}
	if i.Metadata != nil {
		out.Metadata = make(map[string]string, len(i.Metadata))
		for k, v := range i.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
