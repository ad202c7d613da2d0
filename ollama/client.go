// Package ollama wraps the Ollama chat API for non-streaming tool use.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.1:latest"
)

type Client struct {
	client  *api.Client
	mu      sync.RWMutex
	model   string
	baseURL string
}

func NewClient(baseURL, model string) (*Client, error) {
	return NewClientWithHTTP(baseURL, model, &http.Client{Timeout: 5 * time.Minute})
}

// NewClientWithHTTP is NewClient with a caller supplied HTTP client.
func NewClientWithHTTP(baseURL, model string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &Client{
		client:  api.NewClient(parsedURL, httpClient),
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Chat sends one non-streaming chat request and returns the assistant
// message, including any tool calls.
func (c *Client) Chat(ctx context.Context, messages []api.Message, tools []api.Tool) (api.Message, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    c.GetModel(),
		Messages: messages,
		Tools:    tools,
		Stream:   &stream,
	}

	var reply api.Message
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.Role = resp.Message.Role
		reply.Content += resp.Message.Content
		reply.ToolCalls = append(reply.ToolCalls, resp.Message.ToolCalls...)
		return nil
	})
	if err != nil {
		return api.Message{}, err
	}
	if reply.Role == "" {
		reply.Role = "assistant"
	}
	return reply, nil
}

func (c *Client) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

func (c *Client) GetModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// ModelCapabilities tracks which model families support tool calling
// This is a curated list based on Ollama documentation and community testing
var toolCallingModels = map[string]bool{
	// Known working models with full tool support
	"qwen":      true, // qwen2.5, qwen3
	"llama3.1":  true,
	"llama3.2":  true,
	"mistral":   true,
	"command-r": true,
	"nemotron":  true,
	"granite3":  true,
	"llama3.3":  true,

	// Models with issues or no tool support
	"llama3-gradient": false,
	"llama3":          false, // Original llama3 (not 3.1/3.2/3.3)
	"phi":             false,
	"gemma":           false,
	"codellama":       false,
	"deepseek":        false,
}

// orderedPrefixes defines the order to check model prefixes.
// Most specific first: "llama3.2" must match before "llama3".
var orderedPrefixes = []string{
	"llama3.3", "llama3.2", "llama3.1",
	"llama3-gradient",
	"command-r", "qwen", "mistral", "nemotron", "granite3",
	"codellama",
	"llama3",
	"deepseek", "phi", "gemma",
}

// SupportsToolCalling checks if the current model supports Ollama's tool calling API
func (c *Client) SupportsToolCalling() bool {
	return ModelSupportsToolCalling(c.GetModel())
}

// ModelSupportsToolCalling reports whether a model name is known to support
// tools. Unknown models are assumed not to.
func ModelSupportsToolCalling(modelName string) bool {
	modelName = strings.ToLower(modelName)
	for _, prefix := range orderedPrefixes {
		if strings.HasPrefix(modelName, prefix) {
			if supported, exists := toolCallingModels[prefix]; exists {
				return supported
			}
		}
	}
	return false
}
