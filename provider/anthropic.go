package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"rtui/config"
	"rtui/model"
	"rtui/tools"
)

// anthropicTranscript is the conversation state behind one handle.
type anthropicTranscript struct {
	system   []anthropic.TextBlockParam
	messages []anthropic.MessageParam
	issued   []string
}

// AnthropicProvider implements model.Provider using Anthropic's Messages API.
// The Messages API is stateless, so each handle names a locally held
// transcript that the next request replays.
type AnthropicProvider struct {
	client  *anthropic.Client
	mu      sync.RWMutex
	model   anthropic.Model
	baseURL string

	transcripts *transcripts[anthropicTranscript]
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Parameters:
//   - baseURL: Anthropic API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: Initial model to use (default: "claude-sonnet-4-5-20250929")
//
// Returns an error if the API key is missing.
func NewAnthropicProvider(baseURL, apiKey, model string) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = config.ProviderDefaultBaseURL(config.ProviderAnthropic)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic %w", config.ErrMissingAPIKey)
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		anthropicModel = anthropic.Model(model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client:      &client,
		model:       anthropicModel,
		baseURL:     baseURL,
		transcripts: newTranscripts[anthropicTranscript](),
	}, nil
}

// Complete implements model.Provider.
func (p *AnthropicProvider) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	prior, err := p.transcripts.resume(req.Continuation)
	if err != nil {
		return nil, err
	}

	input := padUnanswered(prior.issued, req.Input)
	newMessages, system := ConvertToAnthropicMessages(input)
	if req.Instructions != "" {
		system = append([]anthropic.TextBlockParam{{Text: req.Instructions}}, system...)
	}

	t := anthropicTranscript{
		system:   append(append([]anthropic.TextBlockParam(nil), prior.system...), system...),
		messages: append(append([]anthropic.MessageParam(nil), prior.messages...), newMessages...),
	}

	params := anthropic.MessageNewParams{
		Model:     p.getModel(),
		Messages:  t.messages,
		MaxTokens: 4096, // Required by Anthropic API
	}
	if len(t.system) > 0 {
		params.System = t.system
	}
	if len(req.Tools) > 0 {
		params.Tools = tools.ToAnthropic(req.Tools)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] Anthropic request: model=%s messages=%d tools=%d",
			params.Model, len(t.messages), len(req.Tools))
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Anthropic request failed: %w", err)
	}

	out := &model.Response{Output: ConvertFromAnthropicContent(msg.Content)}
	t.messages = append(t.messages, msg.ToParam())
	t.issued = callIDs(out)
	out.Handle = p.transcripts.save(t)
	return out, nil
}

func (p *AnthropicProvider) Name() string {
	return config.ProviderAnthropic
}

// GetModel implements Provider.GetModel.
func (p *AnthropicProvider) GetModel() string {
	return string(p.getModel())
}

func (p *AnthropicProvider) getModel() anthropic.Model {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

// SetModel implements Provider.SetModel.
func (p *AnthropicProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = anthropic.Model(model)
}
