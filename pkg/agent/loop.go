package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/helios-engine/helios/pkg/chat"
	"github.com/helios-engine/helios/pkg/tool"
)

// Cancelled is returned by Chat when ctx was cancelled between iterations.
var Cancelled = errors.New("agent: cancelled")

// Chat implements the Agent Loop contract from spec.md §4.3:
//  1. append the user message
//  2. iterate up to MaxIterations times, calling the transport, appending
//     the assistant reply, and — if it requested tool calls — executing
//     them in order and appending their results
//  3. return the assistant's plain-text reply as soon as one arrives
//
// If the iteration budget is exhausted with unresolved tool calls, Chat
// logs the fact and returns the last assistant content (which may be
// empty); the session retains the full trace either way.
func (a *Agent) Chat(ctx context.Context, userMessage string) (string, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	a.session.Append(chat.ChatMessage{Role: chat.RoleUser, Content: userMessage})

	var lastContent string

	for iteration := 0; iteration < a.maxIterations; iteration++ {
		toolDefs := a.tools.Definitions()

		reply, err := a.transport.Chat(ctx, a.session.Messages(), toolDefs)
		if err != nil {
			return "", fmt.Errorf("agent %s: llm transport call failed: %w", a.name, err)
		}
		reply.Role = chat.RoleAssistant
		a.session.Append(reply)
		lastContent = reply.Content

		if !reply.IsToolCallRequest() {
			return reply.Content, nil
		}

		for _, call := range reply.ToolCalls {
			a.session.Append(a.executeToolCall(ctx, call))
		}

		if ctx.Err() != nil {
			slog.Debug("agent loop cancelled between iterations",
				"agent", a.name, "iteration", iteration)
			return lastContent, Cancelled
		}
	}

	slog.Warn("agent loop exhausted iteration budget with unresolved tool calls",
		"agent", a.name, "max_iterations", a.maxIterations)
	return lastContent, nil
}

// executeToolCall parses arguments, looks up the tool, executes it, and
// always produces a role=tool message — a decode failure, an unknown tool
// or a tool error becomes a tool message carrying the error text rather
// than aborting the turn, so the model can recover (spec.md §4.3, §4.8).
func (a *Agent) executeToolCall(ctx context.Context, call chat.ToolCall) chat.ChatMessage {
	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			slog.Debug("tool call arguments failed to decode",
				"agent", a.name, "tool", call.Name, "error", err)
			return chat.ChatMessage{
				Role:       chat.RoleTool,
				ToolCallID: call.ID,
				Content:    fmt.Sprintf("invalid arguments for %s: %v", call.Name, err),
			}
		}
	}

	result, err := a.tools.Execute(ctx, call.Name, args)
	if err != nil {
		var unknown *tool.UnknownTool
		if errors.As(err, &unknown) {
			return chat.ChatMessage{
				Role:       chat.RoleTool,
				ToolCallID: call.ID,
				Content:    err.Error(),
			}
		}
		slog.Debug("tool execution returned an error", "agent", a.name, "tool", call.Name, "error", err)
		return chat.ChatMessage{
			Role:       chat.RoleTool,
			ToolCallID: call.ID,
			Content:    err.Error(),
		}
	}

	return chat.ChatMessage{
		Role:       chat.RoleTool,
		ToolCallID: call.ID,
		Content:    result.Content,
	}
}
