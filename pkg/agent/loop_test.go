package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helios-engine/helios/pkg/chat"
	"github.com/helios-engine/helios/pkg/llm/llmtest"
	"github.com/helios-engine/helios/pkg/tool"
)

type calculatorTool struct {
	shouldError bool
}

func (c *calculatorTool) Definition() tool.Definition {
	return tool.Definition{
		Name:        "calculator",
		Description: "Evaluates a simple arithmetic expression",
		Parameters: map[string]tool.Parameter{
			"expression": {TypeName: "string", Required: true},
		},
	}
}

func (c *calculatorTool) Execute(ctx context.Context, arguments map[string]any) (tool.Result, error) {
	expr, _ := arguments["expression"].(string)
	if expr == "1/0" {
		return tool.ErrorResult("division by zero"), nil
	}
	if expr == "15*7" {
		return tool.Result{Content: "105"}, nil
	}
	return tool.Result{Content: "0"}, nil
}

func TestAgentChatSingleToolArithmetic(t *testing.T) {
	transport := llmtest.NewScripted(
		chat.ChatMessage{
			Role: chat.RoleAssistant,
			ToolCalls: []chat.ToolCall{
				{ID: "call-1", Name: "calculator", Arguments: `{"expression":"15*7"}`},
			},
		},
		chat.ChatMessage{Role: chat.RoleAssistant, Content: "105"},
	)

	tools := tool.NewRegistry()
	require.NoError(t, tools.Register(&calculatorTool{}))

	a := NewBuilder("worker", transport).WithTools(tools).Build()

	reply, err := a.Chat(context.Background(), "what is 15 * 7?")
	require.NoError(t, err)
	assert.Contains(t, reply, "105")

	msgs := a.Session().Messages()
	require.Len(t, msgs, 4) // user, assistant(tool_calls), tool, assistant(final)
	assert.Equal(t, chat.RoleTool, msgs[2].Role)
	assert.Equal(t, "call-1", msgs[2].ToolCallID)
}

func TestAgentChatToolErrorRecovery(t *testing.T) {
	transport := llmtest.NewScripted(
		chat.ChatMessage{
			Role: chat.RoleAssistant,
			ToolCalls: []chat.ToolCall{
				{ID: "call-1", Name: "calculator", Arguments: `{"expression":"1/0"}`},
			},
		},
		chat.ChatMessage{Role: chat.RoleAssistant, Content: "That expression divides by zero, so I can't compute it."},
	)

	tools := tool.NewRegistry()
	require.NoError(t, tools.Register(&calculatorTool{}))
	a := NewBuilder("worker", transport).WithTools(tools).Build()

	reply, err := a.Chat(context.Background(), "what is 1/0?")
	require.NoError(t, err)
	assert.Contains(t, reply, "divide")

	msgs := a.Session().Messages()
	toolMsgCount := 0
	for _, m := range msgs {
		if m.Role == chat.RoleTool {
			toolMsgCount++
			assert.Equal(t, "division by zero", m.Content)
		}
	}
	assert.Equal(t, 1, toolMsgCount)
}

func TestAgentChatUnknownTool(t *testing.T) {
	transport := llmtest.NewScripted(
		chat.ChatMessage{
			Role:      chat.RoleAssistant,
			ToolCalls: []chat.ToolCall{{ID: "call-1", Name: "does_not_exist", Arguments: `{}`}},
		},
		chat.ChatMessage{Role: chat.RoleAssistant, Content: "done"},
	)
	a := NewBuilder("worker", transport).Build()

	reply, err := a.Chat(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "done", reply)

	msgs := a.Session().Messages()
	assert.Contains(t, msgs[2].Content, "unknown tool")
}

func TestAgentChatMalformedArguments(t *testing.T) {
	transport := llmtest.NewScripted(
		chat.ChatMessage{
			Role:      chat.RoleAssistant,
			ToolCalls: []chat.ToolCall{{ID: "call-1", Name: "calculator", Arguments: `{not json`}},
		},
		chat.ChatMessage{Role: chat.RoleAssistant, Content: "done"},
	)
	tools := tool.NewRegistry()
	require.NoError(t, tools.Register(&calculatorTool{}))
	a := NewBuilder("worker", transport).WithTools(tools).Build()

	reply, err := a.Chat(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "done", reply)
	assert.Contains(t, a.Session().Messages()[2].Content, "invalid arguments")
}

func TestAgentChatIterationBudgetExhaustion(t *testing.T) {
	call := chat.ChatMessage{
		Role:      chat.RoleAssistant,
		ToolCalls: []chat.ToolCall{{ID: "call-1", Name: "calculator", Arguments: `{"expression":"1+1"}`}},
	}
	transport := llmtest.NewScripted(call, call)

	tools := tool.NewRegistry()
	require.NoError(t, tools.Register(&calculatorTool{}))
	a := NewBuilder("worker", transport).WithTools(tools).WithMaxIterations(2).Build()

	reply, err := a.Chat(context.Background(), "loop forever")
	require.NoError(t, err)
	assert.Equal(t, "", reply) // last assistant content was empty (tool-calls-only turn)

	msgs := a.Session().Messages()
	assert.GreaterOrEqual(t, len(msgs), 5) // user + 2 assistant + >=2 tool
}

func TestAgentChatMaxIterationsOneReturnsEmptyContent(t *testing.T) {
	transport := llmtest.NewScripted(chat.ChatMessage{
		Role:      chat.RoleAssistant,
		ToolCalls: []chat.ToolCall{{ID: "call-1", Name: "calculator", Arguments: `{"expression":"1+1"}`}},
	})
	tools := tool.NewRegistry()
	require.NoError(t, tools.Register(&calculatorTool{}))
	a := NewBuilder("worker", transport).WithTools(tools).WithMaxIterations(1).Build()

	reply, err := a.Chat(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestAgentChatSequentialToolOrder(t *testing.T) {
	transport := llmtest.NewScripted(
		chat.ChatMessage{
			Role: chat.RoleAssistant,
			ToolCalls: []chat.ToolCall{
				{ID: "call-1", Name: "calculator", Arguments: `{"expression":"15*7"}`},
				{ID: "call-2", Name: "calculator", Arguments: `{"expression":"1/0"}`},
			},
		},
		chat.ChatMessage{Role: chat.RoleAssistant, Content: "done"},
	)
	tools := tool.NewRegistry()
	require.NoError(t, tools.Register(&calculatorTool{}))
	a := NewBuilder("worker", transport).WithTools(tools).Build()

	_, err := a.Chat(context.Background(), "go")
	require.NoError(t, err)

	msgs := a.Session().Messages()
	// user, assistant(2 calls), tool(call-1), tool(call-2), assistant(final)
	require.Len(t, msgs, 5)
	assert.Equal(t, "call-1", msgs[2].ToolCallID)
	assert.Equal(t, "call-2", msgs[3].ToolCallID)
}
