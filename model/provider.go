package model

import (
	"context"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Provider abstracts the model service. Implementations exist for the OpenAI
// Responses API, Anthropic Messages and Ollama chat.
//
// This interface is defined in the model package (not provider package) to
// avoid import cycles: provider implementations import model, and the
// research loop uses the interface without importing provider.
type Provider interface {
	// Complete issues one request and waits for the full response.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider id ("openai", "anthropic", "ollama").
	Name() string

	// GetModel returns the model identifier used for requests.
	GetModel() string

	// SetModel changes the model used for subsequent requests.
	SetModel(model string)
}

// Handle is an opaque continuation token returned by a response. Passing it
// back in Request.Continuation resumes the service's context for that
// response. The zero Handle starts a new context.
type Handle struct {
	token string
}

func NewHandle(token string) Handle {
	return Handle{token: token}
}

// Token returns the provider-specific value behind the handle.
func (h Handle) Token() string {
	return h.token
}

func (h Handle) IsZero() bool {
	return h.token == ""
}

// InputItem is either a conversation message or a tool call result. Exactly
// one of Message and Result is set.
type InputItem struct {
	Message *Message
	Result  *ToolCallResult
}

func MessageInput(role Role, content string) InputItem {
	return InputItem{Message: &Message{Role: role, Content: content}}
}

func ResultInput(result ToolCallResult) InputItem {
	return InputItem{Result: &result}
}

// Request is one model call.
type Request struct {
	// Instructions is the system instruction, if any.
	Instructions string
	Input        []InputItem
	Tools        []mcptypes.Tool
	Continuation Handle
}

// ToolCallRequest is a tool invocation requested by the model.
type ToolCallRequest struct {
	Name      string
	CallID    string
	Arguments string // JSON
}

// ToolCallResult answers one ToolCallRequest.
type ToolCallResult struct {
	CallID string
	Output string
}

// OutputItem is either final message text or a tool call request.
type OutputItem struct {
	Text     string
	ToolCall *ToolCallRequest
}

type Response struct {
	Handle Handle
	Output []OutputItem
}

// ToolCalls returns the requested tool calls in the order issued.
func (r *Response) ToolCalls() []ToolCallRequest {
	if r == nil {
		return nil
	}
	var calls []ToolCallRequest
	for _, item := range r.Output {
		if item.ToolCall != nil {
			calls = append(calls, *item.ToolCall)
		}
	}
	return calls
}

// Text returns the concatenated message text of the response.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var parts []string
	for _, item := range r.Output {
		if item.ToolCall == nil && item.Text != "" {
			parts = append(parts, item.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}
