package llm

import (
	"context"

	"github.com/helios-engine/helios/pkg/chat"
	"github.com/helios-engine/helios/pkg/tool"
)

// HandlerFunc is the local-inference entry point an InProcessTransport
// dispatches to — a synchronous function producing the logical
// ChatMessage, in place of a network round trip (spec.md §6: "Local
// inference backends produce the same logical ChatMessage via an
// in-process channel").
type HandlerFunc func(ctx context.Context, messages []chat.ChatMessage, tools []tool.Definition) (chat.ChatMessage, error)

// InProcessTransport adapts a local/on-device inference backend (or a test
// double) to the Transport contract via a Go channel rather than an HTTP
// round trip.
type InProcessTransport struct {
	handler HandlerFunc
}

// NewInProcessTransport wraps handler as a Transport.
func NewInProcessTransport(handler HandlerFunc) *InProcessTransport {
	return &InProcessTransport{handler: handler}
}

// Chat implements Transport by running the handler and waiting on its
// result channel.
func (t *InProcessTransport) Chat(ctx context.Context, messages []chat.ChatMessage, tools []tool.Definition) (chat.ChatMessage, error) {
	type outcome struct {
		msg chat.ChatMessage
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		msg, err := t.handler(ctx, messages, tools)
		ch <- outcome{msg: msg, err: err}
	}()

	select {
	case <-ctx.Done():
		return chat.ChatMessage{}, ctx.Err()
	case out := <-ch:
		return out.msg, out.err
	}
}

// ChatStream implements Transport by running Chat and, if the handler
// produced any content, delivering it to onChunk as a single fragment —
// local backends in this engine do not sub-stream tokens, so the
// "streaming" contract still holds (concatenation of emitted fragments
// equals the final content) with exactly one fragment.
func (t *InProcessTransport) ChatStream(ctx context.Context, messages []chat.ChatMessage, tools []tool.Definition, onChunk ChunkFunc) (chat.ChatMessage, error) {
	msg, err := t.Chat(ctx, messages, tools)
	if err != nil {
		return chat.ChatMessage{}, err
	}
	if onChunk != nil && msg.Content != "" {
		onChunk(msg.Content)
	}
	return msg, nil
}

var _ Transport = (*InProcessTransport)(nil)
