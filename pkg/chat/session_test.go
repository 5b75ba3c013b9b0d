package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAppendAndOrder(t *testing.T) {
	s := NewSessionWithSystemPrompt("be helpful")
	require.Equal(t, 1, s.Len())

	s.Append(ChatMessage{Role: RoleUser, Content: "hi"})
	s.Append(ChatMessage{Role: RoleAssistant, Content: "hello"})

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, RoleAssistant, msgs[2].Role)
}

func TestSessionClearPreservesMetadata(t *testing.T) {
	s := NewSession()
	s.SetMetadata("k", "v")
	s.Append(ChatMessage{Role: RoleUser, Content: "hi"})

	s.Clear()

	assert.Equal(t, 0, s.Len())
	v, ok := s.Metadata("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestSessionClearMetadata(t *testing.T) {
	s := NewSession()
	s.SetMetadata("k", "v")
	s.ClearMetadata()
	_, ok := s.Metadata("k")
	assert.False(t, ok)
}

func TestToolCallIDsSeen(t *testing.T) {
	s := NewSession()
	s.Append(ChatMessage{
		Role:      RoleAssistant,
		ToolCalls: []ToolCall{{ID: "call-1", Name: "calc", Arguments: `{"x":1}`}},
	})
	seen := s.ToolCallIDsSeen()
	assert.True(t, seen["call-1"])
	assert.False(t, seen["call-2"])
}
