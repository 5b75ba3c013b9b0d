package forest

// Policy exposes the two behaviors spec.md §9 flags as deliberately
// unresolved in the original system and asks a concrete implementation to
// pin down rather than guess.
type Policy struct {
	// CascadeFailOnDependencyFailure controls what happens to a ready task
	// whose dependency Failed. true (the default) fails the dependent
	// immediately with "upstream failure", without dispatching it to an
	// agent. false dispatches it anyway, with the failure noted in its
	// prompt, so the agent can decide how to proceed.
	CascadeFailOnDependencyFailure bool

	// RequireUpdateTaskMemory controls whether a worker must call
	// update_task_memory to complete its task. false (the default) lets the
	// orchestrator auto-complete a task with the agent's final reply when
	// the agent never called the tool. true instead marks such a task
	// Failed, so silent non-completion cannot be mistaken for success.
	RequireUpdateTaskMemory bool

	// ConcurrentDispatch runs a ready batch's tasks in parallel instead of
	// serially, one goroutine per distinct assigned agent (spec.md §9:
	// "Implementations desiring parallel worker execution must ... ensure
	// one task per agent concurrently"). false (the default) is the
	// reference orchestrator's serial dispatch.
	ConcurrentDispatch bool
}

// DefaultPolicy is cascade-fail-on-dependency-failure plus auto-complete —
// the behavior spec.md §4.6 describes as the orchestrator's baseline.
func DefaultPolicy() Policy {
	return Policy{
		CascadeFailOnDependencyFailure: true,
		RequireUpdateTaskMemory:        false,
	}
}
