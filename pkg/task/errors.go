package task

import "fmt"

// InvalidPlan is returned by Plan.AddTask when inserting a TaskItem would
// violate one of the plan's invariants: duplicate id, a dependency that
// doesn't exist, or a dependency cycle.
type InvalidPlan struct {
	Reason string
}

func (e *InvalidPlan) Error() string {
	return fmt.Sprintf("invalid plan: %s", e.Reason)
}
