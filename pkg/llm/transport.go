// Package llm defines the LLM Transport contract the Agent Loop drives,
// plus two collaborators implementing it: an HTTP transport to
// OpenAI-compatible chat-completions endpoints, and an in-process transport
// for local/on-device backends and tests.
package llm

import (
	"context"

	"github.com/helios-engine/helios/pkg/chat"
	"github.com/helios-engine/helios/pkg/tool"
)

// ChunkFunc receives incremental text fragments during a streaming call.
// Concatenating every fragment it receives yields the final message's
// Content.
type ChunkFunc func(fragment string)

// Transport is the contract the Agent Loop calls into. Both methods return
// an assistant ChatMessage carrying Content, ToolCalls, or both.
type Transport interface {
	// Chat sends the full conversation plus the tool schema catalog and
	// returns the model's reply in one shot.
	Chat(ctx context.Context, messages []chat.ChatMessage, tools []tool.Definition) (chat.ChatMessage, error)

	// ChatStream behaves like Chat but additionally emits incremental text
	// fragments to onChunk as they arrive. The returned message's Content
	// is the full concatenation of every fragment emitted, exactly as in
	// the non-streaming path — streaming must never change what ends up in
	// the session.
	ChatStream(ctx context.Context, messages []chat.ChatMessage, tools []tool.Definition, onChunk ChunkFunc) (chat.ChatMessage, error)
}
