package forest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/helios-engine/helios/internal/telemetry"
	"github.com/helios-engine/helios/pkg/agent"
	"github.com/helios-engine/helios/pkg/task"
)

// Execute runs coordinator-planning mode (spec.md §4.6a): Plan, then
// dependency-scheduled Execute, then Synthesize. Requires a designated
// coordinator.
func (f *Forest) Execute(ctx context.Context, goal string) (string, error) {
	if !f.hasCoord {
		return "", NoCoordinator
	}
	coordinator, ok := f.agents[f.coordinator]
	if !ok {
		return "", &UnknownAgent{ID: string(f.coordinator)}
	}

	start := time.Now()
	tracer := telemetry.Tracer("helios/forest")
	ctx, span := tracer.Start(ctx, "forest.execute")
	defer span.End()

	if err := f.plan(ctx, coordinator, goal); err != nil {
		f.recordExecution("plan_error", start, 0)
		return "", err
	}

	iterations, err := f.runExecutePhase(ctx, coordinator)
	if err != nil {
		f.recordExecution("cancelled", start, iterations)
		return "", err
	}

	answer, err := f.synthesize(ctx, coordinator, goal)
	outcome := "completed"
	if err != nil {
		outcome = "synthesis_error"
	}
	f.recordExecution(outcome, start, iterations)
	return answer, err
}

func (f *Forest) recordExecution(outcome string, start time.Time, iterations int) {
	if f.metrics == nil {
		return
	}
	f.metrics.RecordExecution(outcome, time.Since(start), iterations)
}

// plan runs the Plan phase: prompt the coordinator with the goal and the
// roster, letting its create_plan tool install a TaskPlan. Falls back to a
// single-task plan whenever the coordinator's turn ends without a plan
// installed, whether it replied in plain text or exhausted its iteration
// budget (spec.md §4.6 phase 1).
func (f *Forest) plan(ctx context.Context, coordinator *agent.Agent, goal string) error {
	prompt := fmt.Sprintf("Goal: %s\n\nAvailable agents:\n%s\n\nCreate a task plan using create_plan.", goal, f.rosterDescription())

	if _, err := f.chat(ctx, coordinator, prompt); err != nil {
		return fmt.Errorf("forest: coordinator planning turn failed: %w", err)
	}

	if _, ok := f.shared.Plan(); ok {
		return nil
	}

	slog.Warn("coordinator did not produce a plan within its iteration budget; falling back to single-task plan")
	worker, ok := f.firstWorker()
	if !ok {
		return fmt.Errorf("forest: no worker agent available for fallback plan")
	}

	fallback := task.NewPlan(goal)
	if err := fallback.AddTask(task.Item{ID: "t1", AssignedTo: worker, Description: goal}); err != nil {
		return err
	}
	f.shared.SetPlan(fallback)
	return nil
}

// runExecutePhase dispatches ready tasks round by round until the plan is
// complete, no progress can be made, or the global iteration budget (3 ×
// the coordinator's max_iterations) is exhausted (spec.md §4.6 phase 2).
func (f *Forest) runExecutePhase(ctx context.Context, coordinator *agent.Agent) (int, error) {
	plan, ok := f.shared.Plan()
	if !ok {
		return 0, fmt.Errorf("forest: no plan installed")
	}

	budget := 3 * coordinator.MaxIterations()
	iteration := 0
	for ; iteration < budget; iteration++ {
		if err := ctx.Err(); err != nil {
			return iteration, Cancelled
		}
		if plan.IsComplete() {
			break
		}

		ready := f.readyBatch(plan)
		if len(ready) == 0 {
			break
		}

		f.dispatchBatch(ctx, plan, ready)
	}
	return iteration, nil
}

// dispatchBatch runs ready to completion, serially by default. Under
// Policy.ConcurrentDispatch it instead runs one goroutine per distinct
// assigned agent (never two tasks for the same agent at once, per spec.md
// §5 and §9); any task sharing an already-claimed agent is left Pending and
// picked up by the next round's next_ready computation.
func (f *Forest) dispatchBatch(ctx context.Context, plan *task.Plan, ready []string) {
	if !f.policy.ConcurrentDispatch {
		for _, id := range ready {
			if ctx.Err() != nil {
				return
			}
			f.dispatch(ctx, plan, id)
		}
		return
	}

	dispatchable, _ := f.disjointByAgent(plan, ready)
	group, groupCtx := errgroup.WithContext(ctx)
	for _, id := range dispatchable {
		id := id
		group.Go(func() error {
			f.dispatch(groupCtx, plan, id)
			return nil
		})
	}
	_ = group.Wait()
}

// disjointByAgent splits ready into a subset assigning at most one task per
// agent and the remainder deferred to a later round.
func (f *Forest) disjointByAgent(plan *task.Plan, ready []string) (dispatchable, deferred []string) {
	claimed := make(map[agent.ID]bool, len(ready))
	for _, id := range ready {
		item, ok := plan.Get(id)
		if !ok {
			continue
		}
		if claimed[item.AssignedTo] {
			deferred = append(deferred, id)
			continue
		}
		claimed[item.AssignedTo] = true
		dispatchable = append(dispatchable, id)
	}
	return dispatchable, deferred
}

// readyBatch computes next_ready and, under CascadeFailOnDependencyFailure,
// immediately fails any ready task with a Failed dependency instead of
// returning it for dispatch — repeating until a round produces no further
// cascades.
func (f *Forest) readyBatch(plan *task.Plan) []string {
	for {
		ready := plan.NextReady(0)
		if !f.policy.CascadeFailOnDependencyFailure {
			return ready
		}

		var dispatchable []string
		cascaded := false
		for _, id := range ready {
			if plan.HasFailedDependency(id) {
				msg := "upstream failure"
				_ = plan.Mutate(id, func(item *task.Item) {
					item.Status = task.StatusFailed
					item.Result = &msg
				})
				cascaded = true
				if f.metrics != nil {
					f.metrics.RecordTask("cascaded_failed", 0)
				}
				continue
			}
			dispatchable = append(dispatchable, id)
		}
		if !cascaded {
			return dispatchable
		}
	}
}

// dispatch runs one task to completion against its assigned agent.
func (f *Forest) dispatch(ctx context.Context, plan *task.Plan, id string) {
	item, ok := plan.Get(id)
	if !ok {
		return
	}

	_ = plan.Mutate(id, func(i *task.Item) { i.Status = task.StatusInProgress })

	worker, ok := f.agents[item.AssignedTo]
	if !ok {
		msg := fmt.Sprintf("assigned agent %s not found", item.AssignedTo)
		_ = plan.Mutate(id, func(i *task.Item) { i.Status = task.StatusFailed; i.Result = &msg })
		return
	}

	prompt := fmt.Sprintf("%s\n\nYour task: %s\n\nSave your result via update_task_memory(task_id=%q, result=...).",
		f.shared.Summary(), item.Description, id)

	start := time.Now()
	reply, err := f.chat(ctx, worker, prompt)
	if err != nil {
		msg := err.Error()
		_ = plan.Mutate(id, func(i *task.Item) { i.Status = task.StatusFailed; i.Result = &msg })
		if f.metrics != nil {
			f.metrics.RecordTask("failed", time.Since(start))
		}
		return
	}

	after, _ := plan.Get(id)
	if after.Status == task.StatusInProgress {
		if f.policy.RequireUpdateTaskMemory {
			msg := "agent did not record a result via update_task_memory"
			_ = plan.Mutate(id, func(i *task.Item) { i.Status = task.StatusFailed; i.Result = &msg })
			if f.metrics != nil {
				f.metrics.RecordTask("failed", time.Since(start))
			}
			return
		}
		_ = plan.Mutate(id, func(i *task.Item) { i.Status = task.StatusCompleted; i.Result = &reply })
	}
	if f.metrics != nil {
		final, _ := plan.Get(id)
		f.metrics.RecordTask(string(final.Status), time.Since(start))
	}
}

// synthesize re-prompts the coordinator for the final user-facing answer.
func (f *Forest) synthesize(ctx context.Context, coordinator *agent.Agent, goal string) (string, error) {
	prompt := fmt.Sprintf("Goal: %s\n\n%s\n\nProduce the final answer for the user.", goal, f.shared.Summary())
	answer, err := f.chat(ctx, coordinator, prompt)
	if err != nil {
		return "", fmt.Errorf("forest: synthesis turn failed: %w", err)
	}
	return answer, nil
}

// chat runs one agent turn, recording telemetry.
func (f *Forest) chat(ctx context.Context, a *agent.Agent, prompt string) (string, error) {
	start := time.Now()
	reply, err := a.Chat(ctx, prompt)
	if f.metrics != nil {
		f.metrics.RecordAgentTurn(string(a.Name()), time.Since(start), err)
	}
	return reply, err
}

func (f *Forest) rosterDescription() string {
	ids := append([]agent.ID(nil), f.order...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	for _, id := range ids {
		if f.hasCoord && id == f.coordinator {
			continue
		}
		desc := f.descriptions[id]
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Fprintf(&b, "- %s: %s\n", id, desc)
	}
	return b.String()
}
