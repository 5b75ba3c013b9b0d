package plantools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/helios-engine/helios/pkg/sharedcontext"
	"github.com/helios-engine/helios/pkg/task"
	"github.com/helios-engine/helios/pkg/tool"
)

// UpdateTaskMemory marks a task Completed (or Failed, if data.is_error is
// set) and stores its result, optionally merging data into the shared
// context's free-form store (spec.md §4.7).
type UpdateTaskMemory struct {
	ctx *sharedcontext.Context
}

// NewUpdateTaskMemory binds update_task_memory to ctx.
func NewUpdateTaskMemory(ctx *sharedcontext.Context) *UpdateTaskMemory {
	return &UpdateTaskMemory{ctx: ctx}
}

func (u *UpdateTaskMemory) Definition() tool.Definition {
	return tool.Definition{
		Name:        "update_task_memory",
		Description: "Record your result for a task and mark it complete. Set data.is_error=true to mark the task Failed instead.",
		Parameters: map[string]tool.Parameter{
			"task_id": {TypeName: "string", Description: "The id of the task you are reporting on.", Required: true},
			"result":  {TypeName: "string", Description: "The result to store for this task.", Required: true},
			"data":    {TypeName: "object", Description: "Optional extra key-value data to merge into the shared context; set is_error=true to mark the task Failed.", Required: false},
		},
	}
}

type updateTaskMemoryArgs struct {
	TaskID string         `json:"task_id"`
	Result string         `json:"result"`
	Data   map[string]any `json:"data,omitempty"`
}

func (u *UpdateTaskMemory) Execute(ctx context.Context, arguments map[string]any) (tool.Result, error) {
	raw, err := json.Marshal(arguments)
	if err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	var args updateTaskMemoryArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.TaskID == "" {
		return tool.ErrorResult("task_id is required"), nil
	}

	plan, ok := u.ctx.Plan()
	if !ok {
		return tool.ErrorResult("no plan has been created yet"), nil
	}

	isError, _ := args.Data["is_error"].(bool)
	status := task.StatusCompleted
	if isError {
		status = task.StatusFailed
	}

	result := args.Result
	mutErr := plan.Mutate(args.TaskID, func(item *task.Item) {
		item.Status = status
		item.Result = &result
	})
	if mutErr != nil {
		return tool.ErrorResult(mutErr.Error()), nil
	}

	if len(args.Data) > 0 {
		delete(args.Data, "is_error")
		if len(args.Data) > 0 {
			u.ctx.Merge(args.Data)
		}
	}

	return tool.Result{Content: fmt.Sprintf("task %s marked %s", args.TaskID, status)}, nil
}

var _ tool.Tool = (*UpdateTaskMemory)(nil)
