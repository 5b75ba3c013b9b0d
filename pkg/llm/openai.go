package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/helios-engine/helios/internal/httpclient"
	"github.com/helios-engine/helios/pkg/chat"
	"github.com/helios-engine/helios/pkg/tool"
)

// HTTPConfig configures an OpenAICompatibleTransport. It mirrors spec.md
// §6's consumed configuration table.
type HTTPConfig struct {
	ModelName   string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// OpenAICompatibleTransport talks request/response (and streaming)
// chat-completions JSON to any OpenAI-compatible endpoint, hand-rolled over
// net/http the way the teacher's llms/openai.go does rather than through a
// vendor SDK — the wire adapter is an explicit out-of-scope collaborator
// (spec.md §1), so it stays minimal and dependency-free.
type OpenAICompatibleTransport struct {
	cfg    HTTPConfig
	client *http.Client
}

// NewOpenAICompatibleTransport builds a transport from cfg.
func NewOpenAICompatibleTransport(cfg HTTPConfig) *OpenAICompatibleTransport {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OpenAICompatibleTransport{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireToolCall struct {
	Index    *int   `json:"index,omitempty"`
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type wireTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Tools       []wireTool    `json:"tools,omitempty"`
	Stream      bool          `json:"stream"`
}

type wireChoice struct {
	Message      wireMessage `json:"message"`
	Delta        wireMessage `json:"delta"`
	FinishReason string      `json:"finish_reason"`
}

type wireError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type wireResponse struct {
	Choices []wireChoice `json:"choices"`
	Error   *wireError   `json:"error,omitempty"`
}

func toWireTools(tools []tool.Definition) []wireTool {
	out := make([]wireTool, 0, len(tools))
	for _, t := range tools {
		properties := make(map[string]any, len(t.Parameters))
		var required []string
		for name, p := range t.Parameters {
			properties[name] = map[string]any{
				"type":        p.TypeName,
				"description": p.Description,
			}
			if p.Required {
				required = append(required, name)
			}
		}
		wt := wireTool{Type: "function"}
		wt.Function.Name = t.Name
		wt.Function.Description = t.Description
		wt.Function.Parameters = map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   required,
		}
		out = append(out, wt)
	}
	return out
}

func toWireMessages(messages []chat.ChatMessage) []wireMessage {
	out := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		wm := wireMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			wtc := wireToolCall{ID: tc.ID, Type: "function"}
			wtc.Function.Name = tc.Name
			wtc.Function.Arguments = tc.Arguments
			wm.ToolCalls = append(wm.ToolCalls, wtc)
		}
		out = append(out, wm)
	}
	return out
}

func fromWireMessage(wm wireMessage) chat.ChatMessage {
	msg := chat.ChatMessage{Role: chat.RoleAssistant, Content: wm.Content}
	for _, tc := range wm.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, chat.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return msg
}

func (t *OpenAICompatibleTransport) newRequest(ctx context.Context, req wireRequest) (*http.Request, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &DecodeError{Message: "encoding request body", Err: err}
	}

	url := strings.TrimRight(t.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Message: "building request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if t.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	}
	return httpReq, nil
}

func providerErrorFromStatus(resp *http.Response, body []byte) error {
	var wr wireResponse
	_ = json.Unmarshal(body, &wr)
	message := string(body)
	code := ""
	if wr.Error != nil {
		message = wr.Error.Message
		code = wr.Error.Code
	}
	rateLimit := httpclient.ParseRateLimitHeaders(resp.Header)
	return &ProviderError{StatusCode: resp.StatusCode, Code: code, Message: message, RetryAfter: rateLimit.RetryAfter, RateLimit: rateLimit}
}

// Chat implements Transport.
func (t *OpenAICompatibleTransport) Chat(ctx context.Context, messages []chat.ChatMessage, tools []tool.Definition) (chat.ChatMessage, error) {
	req := wireRequest{
		Model:       t.cfg.ModelName,
		Messages:    toWireMessages(messages),
		Temperature: t.cfg.Temperature,
		MaxTokens:   t.cfg.MaxTokens,
		Tools:       toWireTools(tools),
	}

	httpReq, err := t.newRequest(ctx, req)
	if err != nil {
		return chat.ChatMessage{}, err
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return chat.ChatMessage{}, &TransportError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return chat.ChatMessage{}, &TransportError{Message: "reading response body", Err: err}
	}

	if resp.StatusCode >= 300 {
		return chat.ChatMessage{}, providerErrorFromStatus(resp, body)
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return chat.ChatMessage{}, &DecodeError{Message: "decoding response body", Err: err}
	}
	if len(wr.Choices) == 0 {
		return chat.ChatMessage{}, &DecodeError{Message: "response had no choices"}
	}
	return fromWireMessage(wr.Choices[0].Message), nil
}

// ChatStream implements Transport over Server-Sent Events, the way OpenAI-
// compatible endpoints stream: a sequence of "data: {...}" lines terminated
// by "data: [DONE]".
func (t *OpenAICompatibleTransport) ChatStream(ctx context.Context, messages []chat.ChatMessage, tools []tool.Definition, onChunk ChunkFunc) (chat.ChatMessage, error) {
	req := wireRequest{
		Model:       t.cfg.ModelName,
		Messages:    toWireMessages(messages),
		Temperature: t.cfg.Temperature,
		MaxTokens:   t.cfg.MaxTokens,
		Tools:       toWireTools(tools),
		Stream:      true,
	}

	httpReq, err := t.newRequest(ctx, req)
	if err != nil {
		return chat.ChatMessage{}, err
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return chat.ChatMessage{}, &TransportError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return chat.ChatMessage{}, providerErrorFromStatus(resp, body)
	}

	var (
		contentBuilder strings.Builder
		toolCalls      []chat.ToolCall
		toolCallIdx    = make(map[int]int) // index in toolCalls, keyed by wire index
	)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" || payload == "" {
			continue
		}

		var chunk wireResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return chat.ChatMessage{}, &DecodeError{Message: "decoding stream chunk", Err: err}
		}
		if chunk.Error != nil {
			return chat.ChatMessage{}, &ProviderError{Message: chunk.Error.Message, Code: chunk.Error.Code}
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			contentBuilder.WriteString(delta.Content)
			if onChunk != nil {
				onChunk(delta.Content)
			}
		}
		for i, tc := range delta.ToolCalls {
			wireIdx := i
			if tc.Index != nil {
				wireIdx = *tc.Index
			}
			idx, ok := toolCallIdx[wireIdx]
			if !ok {
				toolCalls = append(toolCalls, chat.ToolCall{ID: tc.ID, Name: tc.Function.Name})
				idx = len(toolCalls) - 1
				toolCallIdx[wireIdx] = idx
			}
			if tc.ID != "" {
				toolCalls[idx].ID = tc.ID
			}
			if tc.Function.Name != "" {
				toolCalls[idx].Name = tc.Function.Name
			}
			toolCalls[idx].Arguments += tc.Function.Arguments
		}
	}
	if err := scanner.Err(); err != nil {
		return chat.ChatMessage{}, &TransportError{Message: "reading stream", Err: err}
	}

	return chat.ChatMessage{
		Role:      chat.RoleAssistant,
		Content:   contentBuilder.String(),
		ToolCalls: toolCalls,
	}, nil
}

var _ Transport = (*OpenAICompatibleTransport)(nil)
