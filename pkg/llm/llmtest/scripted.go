// Package llmtest provides a scripted Transport double for exercising the
// Agent Loop and Forest orchestrator deterministically, the way the teacher
// repo's pkg/testutils provides fakes for its agent tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/helios-engine/helios/pkg/chat"
	"github.com/helios-engine/helios/pkg/llm"
	"github.com/helios-engine/helios/pkg/tool"
)

// Scripted is a Transport whose Chat/ChatStream responses are supplied in
// advance, one per call, in order. It records every request it received for
// later assertions.
type Scripted struct {
	mu        sync.Mutex
	responses []chat.ChatMessage
	errs      []error
	next      int
	Requests  [][]chat.ChatMessage
}

// NewScripted builds a Scripted transport that replies with responses in
// order, one per Chat/ChatStream call.
func NewScripted(responses ...chat.ChatMessage) *Scripted {
	return &Scripted{responses: responses}
}

// WithError makes the call at position i (0-based) fail with err instead of
// returning a scripted response.
func (s *Scripted) WithError(i int, err error) *Scripted {
	for len(s.errs) <= i {
		s.errs = append(s.errs, nil)
	}
	s.errs[i] = err
	return s
}

func (s *Scripted) next_(messages []chat.ChatMessage) (chat.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.next
	s.next++
	s.Requests = append(s.Requests, messages)

	if i < len(s.errs) && s.errs[i] != nil {
		return chat.ChatMessage{}, s.errs[i]
	}
	if i >= len(s.responses) {
		return chat.ChatMessage{}, fmt.Errorf("llmtest: scripted transport exhausted at call %d", i)
	}
	return s.responses[i], nil
}

// Chat implements llm.Transport.
func (s *Scripted) Chat(ctx context.Context, messages []chat.ChatMessage, tools []tool.Definition) (chat.ChatMessage, error) {
	return s.next_(messages)
}

// ChatStream implements llm.Transport, emitting the scripted content as one
// fragment before returning it.
func (s *Scripted) ChatStream(ctx context.Context, messages []chat.ChatMessage, tools []tool.Definition, onChunk llm.ChunkFunc) (chat.ChatMessage, error) {
	msg, err := s.next_(messages)
	if err != nil {
		return chat.ChatMessage{}, err
	}
	if onChunk != nil && msg.Content != "" {
		onChunk(msg.Content)
	}
	return msg, nil
}

// CallCount returns how many calls have been served so far.
func (s *Scripted) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
