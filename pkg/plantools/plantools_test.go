package plantools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helios-engine/helios/pkg/agent"
	"github.com/helios-engine/helios/pkg/sharedcontext"
	"github.com/helios-engine/helios/pkg/task"
)

func TestCreatePlanBuildsAndInstallsPlan(t *testing.T) {
	sc := sharedcontext.New()
	cp := NewCreatePlan(sc, []agent.ID{"researcher", "coder"})

	result, err := cp.Execute(context.Background(), map[string]any{
		"objective": "ship the feature",
		"tasks": []map[string]any{
			{"id": "t1", "description": "research", "assigned_to": "researcher"},
			{"id": "t2", "description": "code it", "assigned_to": "coder", "dependencies": []string{"t1"}},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	plan, ok := sc.Plan()
	require.True(t, ok)
	assert.Equal(t, "ship the feature", plan.Objective)
	assert.Len(t, plan.TasksInOrder(), 2)
}

func TestCreatePlanRejectsUnknownAssignee(t *testing.T) {
	sc := sharedcontext.New()
	cp := NewCreatePlan(sc, []agent.ID{"researcher"})

	result, err := cp.Execute(context.Background(), map[string]any{
		"objective": "goal",
		"tasks": []map[string]any{
			{"id": "t1", "description": "x", "assigned_to": "ghost"},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	_, ok := sc.Plan()
	assert.False(t, ok)
}

func TestCreatePlanRejectsInvalidDependency(t *testing.T) {
	sc := sharedcontext.New()
	cp := NewCreatePlan(sc, []agent.ID{"researcher"})

	result, err := cp.Execute(context.Background(), map[string]any{
		"objective": "goal",
		"tasks": []map[string]any{
			{"id": "t1", "description": "x", "assigned_to": "researcher", "dependencies": []string{"tX"}},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestUpdateTaskMemoryMarksCompletedAndStoresResult(t *testing.T) {
	sc := sharedcontext.New()
	plan := task.NewPlan("goal")
	require.NoError(t, plan.AddTask(task.Item{ID: "t1"}))
	sc.SetPlan(plan)

	utm := NewUpdateTaskMemory(sc)
	result, err := utm.Execute(context.Background(), map[string]any{
		"task_id": "t1",
		"result":  "done",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	item, _ := plan.Get("t1")
	assert.Equal(t, task.StatusCompleted, item.Status)
	require.NotNil(t, item.Result)
	assert.Equal(t, "done", *item.Result)
}

func TestUpdateTaskMemoryMarksFailedOnIsError(t *testing.T) {
	sc := sharedcontext.New()
	plan := task.NewPlan("goal")
	require.NoError(t, plan.AddTask(task.Item{ID: "t1"}))
	sc.SetPlan(plan)

	utm := NewUpdateTaskMemory(sc)
	_, err := utm.Execute(context.Background(), map[string]any{
		"task_id": "t1",
		"result":  "broke",
		"data":    map[string]any{"is_error": true},
	})
	require.NoError(t, err)

	item, _ := plan.Get("t1")
	assert.Equal(t, task.StatusFailed, item.Status)
}

func TestUpdateTaskMemoryMergesData(t *testing.T) {
	sc := sharedcontext.New()
	plan := task.NewPlan("goal")
	require.NoError(t, plan.AddTask(task.Item{ID: "t1"}))
	sc.SetPlan(plan)

	utm := NewUpdateTaskMemory(sc)
	_, err := utm.Execute(context.Background(), map[string]any{
		"task_id": "t1",
		"result":  "done",
		"data":    map[string]any{"extra": "value"},
	})
	require.NoError(t, err)

	v, ok := sc.Get("extra")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestUpdateTaskMemoryNoPlanYet(t *testing.T) {
	sc := sharedcontext.New()
	utm := NewUpdateTaskMemory(sc)
	result, err := utm.Execute(context.Background(), map[string]any{"task_id": "t1", "result": "x"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSendMessageBroadcast(t *testing.T) {
	sc := sharedcontext.New()
	sm := NewSendMessage(sc, "coordinator")

	_, err := sm.Execute(context.Background(), map[string]any{"content": "hello everyone"})
	require.NoError(t, err)

	msgs := sc.MessagesFor("anyone")
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsBroadcast())
	assert.Equal(t, agent.ID("coordinator"), msgs[0].From)
}

func TestSendMessageDirect(t *testing.T) {
	sc := sharedcontext.New()
	sm := NewSendMessage(sc, "coordinator")

	_, err := sm.Execute(context.Background(), map[string]any{"to_agent": "researcher", "content": "hi"})
	require.NoError(t, err)

	assert.Len(t, sc.MessagesFor("researcher"), 1)
	assert.Len(t, sc.MessagesFor("coder"), 0)
}

func TestSendMessageRequiresContent(t *testing.T) {
	sc := sharedcontext.New()
	sm := NewSendMessage(sc, "coordinator")

	result, err := sm.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
