package sharedcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helios-engine/helios/pkg/agent"
	"github.com/helios-engine/helios/pkg/task"
)

func TestContextSetGet(t *testing.T) {
	c := New()
	c.Set("k", "v")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestContextMessagesForFiltersBroadcastAndDirect(t *testing.T) {
	c := New()
	researcher := agent.ID("researcher")
	coder := agent.ID("coder")

	c.AddMessage(Message{From: "coordinator", Content: "broadcast to all"})
	c.AddMessage(Message{From: "coordinator", To: &researcher, Content: "for researcher only"})
	c.AddMessage(Message{From: "coordinator", To: &coder, Content: "for coder only"})

	msgs := c.MessagesFor(researcher)
	require.Len(t, msgs, 2)
	assert.Equal(t, "broadcast to all", msgs[0].Content)
	assert.Equal(t, "for researcher only", msgs[1].Content)
}

func TestContextSetPlanAndSummary(t *testing.T) {
	c := New()
	plan := task.NewPlan("ship the feature")
	require.NoError(t, plan.AddTask(task.Item{ID: "t1", Description: "research", AssignedTo: "researcher"}))
	c.SetPlan(plan)

	got, ok := c.Plan()
	require.True(t, ok)
	assert.Same(t, plan, got)

	summary := c.Summary()
	assert.Contains(t, summary, "ship the feature")
	assert.Contains(t, summary, "t1")
	assert.Contains(t, summary, "researcher")
}

func TestContextSummaryWithNoPlan(t *testing.T) {
	c := New()
	assert.Contains(t, c.Summary(), "No plan")
}

func TestContextWithPlanMut(t *testing.T) {
	c := New()
	plan := task.NewPlan("goal")
	require.NoError(t, plan.AddTask(task.Item{ID: "t1"}))
	c.SetPlan(plan)

	c.WithPlanMut(func(p *task.Plan) {
		require.NotNil(t, p)
		require.NoError(t, p.Mutate("t1", func(i *task.Item) { i.Status = task.StatusInProgress }))
	})

	item, _ := plan.Get("t1")
	assert.Equal(t, task.StatusInProgress, item.Status)
}
