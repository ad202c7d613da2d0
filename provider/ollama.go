package provider

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"

	"rtui/config"
	"rtui/model"
	"rtui/ollama"
	"rtui/tools"
)

// OllamaProvider wraps ollama.Client to implement model.Provider.
//
// Ollama's chat endpoint is stateless and does not identify tool calls, so
// the provider keeps each transcript locally and generates call ids. Tool
// results are sent back as "tool" messages in call order, named after their
// tool. Calls the caller dropped are answered with DroppedCallOutput so no
// later result shifts into a dropped call's slot.
type OllamaProvider struct {
	client      *ollama.Client
	transcripts *transcripts[ollamaTranscript]
}

type ollamaTranscript struct {
	messages []api.Message
	issued   []model.ToolCallRequest
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL. Defaults to "http://localhost:11434".
//   - model: The model name to use. Defaults to "llama3.1:latest".
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return newOllamaProvider(client), nil
}

func newOllamaProvider(client *ollama.Client) *OllamaProvider {
	return &OllamaProvider{
		client:      client,
		transcripts: newTranscripts[ollamaTranscript](),
	}
}

// Complete implements model.Provider.
func (p *OllamaProvider) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	prior, err := p.transcripts.resume(req.Continuation)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(prior.issued))
	for _, call := range prior.issued {
		ids = append(ids, call.CallID)
	}
	req.Input = padUnanswered(ids, req.Input)
	messages := append(append([]api.Message(nil), prior.messages...), ConvertToOllamaMessages(req, prior.issued)...)

	var ollamaTools []api.Tool
	if len(req.Tools) > 0 {
		ollamaTools = tools.ToOllama(req.Tools)
		if !p.client.SupportsToolCalling() && config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] Warning: model %s is not known to support tool calling", p.client.GetModel())
		}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] Ollama request: model=%s messages=%d tools=%d",
			p.client.GetModel(), len(messages), len(ollamaTools))
	}

	reply, err := p.client.Chat(ctx, messages, ollamaTools)
	if err != nil {
		return nil, fmt.Errorf("Ollama request failed: %w", err)
	}

	out := &model.Response{Output: ConvertFromOllamaMessage(reply)}
	out.Handle = p.transcripts.save(ollamaTranscript{
		messages: append(messages, reply),
		issued:   out.ToolCalls(),
	})
	return out, nil
}

func (p *OllamaProvider) Name() string {
	return config.ProviderOllama
}

// GetModel implements Provider.GetModel (direct passthrough).
func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

// SetModel implements Provider.SetModel (direct passthrough).
func (p *OllamaProvider) SetModel(model string) {
	p.client.SetModel(model)
}
