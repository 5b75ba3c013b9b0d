// Package plantools implements the Forest's built-in coordinator/worker
// tools: create_plan, update_task_memory, and send_message (spec.md §4.7),
// each bound at construction time to the shared context (and, for
// send_message, to the calling agent's own id) rather than discovering
// either from tool arguments — the arena+handle pattern spec.md §9
// describes for anything that must call "into" the Forest.
package plantools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/helios-engine/helios/pkg/agent"
	"github.com/helios-engine/helios/pkg/sharedcontext"
	"github.com/helios-engine/helios/pkg/task"
	"github.com/helios-engine/helios/pkg/tool"
)

// taskSpec mirrors one element of create_plan's "tasks" array argument.
type taskSpec struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	AssignedTo   string   `json:"assigned_to"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// CreatePlan builds a TaskPlan from the coordinator's arguments and installs
// it via shared_context.set_plan. Roster restricts assigned_to to known
// agent ids (spec.md §4.7).
type CreatePlan struct {
	ctx    *sharedcontext.Context
	roster map[agent.ID]bool
}

// NewCreatePlan binds create_plan to ctx, validating assigned_to against
// roster.
func NewCreatePlan(ctx *sharedcontext.Context, roster []agent.ID) *CreatePlan {
	set := make(map[agent.ID]bool, len(roster))
	for _, id := range roster {
		set[id] = true
	}
	return &CreatePlan{ctx: ctx, roster: set}
}

func (c *CreatePlan) Definition() tool.Definition {
	return tool.Definition{
		Name:        "create_plan",
		Description: "Create the task plan for this goal: a list of tasks, each assigned to one agent, optionally depending on other tasks by id.",
		Parameters: map[string]tool.Parameter{
			"objective": {TypeName: "string", Description: "The overall goal this plan accomplishes.", Required: true},
			"tasks":     {TypeName: "array", Description: `JSON array of {id, description, assigned_to, dependencies?}`, Required: true},
		},
	}
}

type createPlanArgs struct {
	Objective string     `json:"objective"`
	Tasks     []taskSpec `json:"tasks"`
}

func (c *CreatePlan) Execute(ctx context.Context, arguments map[string]any) (tool.Result, error) {
	raw, err := json.Marshal(arguments)
	if err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	var args createPlanArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if len(args.Tasks) == 0 {
		return tool.ErrorResult("tasks must not be empty"), nil
	}

	for _, t := range args.Tasks {
		if t.AssignedTo != "" && !c.roster[agent.ID(t.AssignedTo)] {
			return tool.ErrorResult(fmt.Sprintf("task %s assigned to unknown agent %s", t.ID, t.AssignedTo)), nil
		}
	}

	plan := task.NewPlan(args.Objective)
	for _, t := range args.Tasks {
		item := task.Item{
			ID:           t.ID,
			Description:  t.Description,
			AssignedTo:   agent.ID(t.AssignedTo),
			Dependencies: t.Dependencies,
		}
		if err := plan.AddTask(item); err != nil {
			return tool.ErrorResult(err.Error()), nil
		}
	}

	c.ctx.SetPlan(plan)
	return tool.Result{Content: fmt.Sprintf("plan %s created with %d tasks", plan.PlanID, len(args.Tasks))}, nil
}

var _ tool.Tool = (*CreatePlan)(nil)
