package plantools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/helios-engine/helios/pkg/agent"
	"github.com/helios-engine/helios/pkg/sharedcontext"
	"github.com/helios-engine/helios/pkg/tool"
)

// SendMessage appends a ForestMessage from a fixed sender to the shared
// context's message history; to_agent empty means broadcast (spec.md §4.7).
type SendMessage struct {
	ctx  *sharedcontext.Context
	from agent.ID
}

// NewSendMessage binds send_message to ctx, sending as from.
func NewSendMessage(ctx *sharedcontext.Context, from agent.ID) *SendMessage {
	return &SendMessage{ctx: ctx, from: from}
}

func (s *SendMessage) Definition() tool.Definition {
	return tool.Definition{
		Name:        "send_message",
		Description: "Send a message to another agent, or broadcast to everyone by omitting to_agent.",
		Parameters: map[string]tool.Parameter{
			"to_agent": {TypeName: "string", Description: "Recipient agent id. Omit to broadcast to every agent.", Required: false},
			"content":  {TypeName: "string", Description: "The message content.", Required: true},
		},
	}
}

type sendMessageArgs struct {
	ToAgent string `json:"to_agent,omitempty"`
	Content string `json:"content"`
}

func (s *SendMessage) Execute(ctx context.Context, arguments map[string]any) (tool.Result, error) {
	raw, err := json.Marshal(arguments)
	if err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	var args sendMessageArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Content == "" {
		return tool.ErrorResult("content is required"), nil
	}

	var to *agent.ID
	if args.ToAgent != "" {
		id := agent.ID(args.ToAgent)
		to = &id
	}

	s.ctx.AddMessage(sharedcontext.Message{
		From:      s.from,
		To:        to,
		Content:   args.Content,
		Timestamp: time.Now(),
	})

	if to == nil {
		return tool.Result{Content: "message broadcast"}, nil
	}
	return tool.Result{Content: fmt.Sprintf("message sent to %s", *to)}, nil
}

var _ tool.Tool = (*SendMessage)(nil)
