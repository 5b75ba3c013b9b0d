package forest

import "errors"

// Cancelled is returned when execute observes external cancellation at one
// of its checkpoints (spec.md §5: before each ready-set computation, before
// dispatching each worker).
var Cancelled = errors.New("forest: cancelled")

// NoCoordinator is returned by Execute when the Forest has no designated
// coordinator agent.
var NoCoordinator = errors.New("forest: no coordinator agent designated")

// UnknownAgent is returned when a task or collaborative call names an agent
// id not registered with the Forest.
type UnknownAgent struct {
	ID string
}

func (e *UnknownAgent) Error() string {
	return "forest: unknown agent " + e.ID
}
