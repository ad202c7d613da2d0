package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"rtui/config"
	"rtui/model"
	"rtui/tools"
)

// OpenAIProvider implements model.Provider on the OpenAI Responses API.
// Continuation handles are response ids passed back as previous_response_id.
type OpenAIProvider struct {
	client  openai.Client
	mu      sync.RWMutex
	model   string
	baseURL string

	// issued remembers each response's call ids so unanswered calls can be
	// closed off on continuation.
	issued *transcripts[[]string]
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Parameters:
//   - baseURL: OpenAI API base URL (default: "https://api.openai.com/v1")
//   - apiKey: OpenAI API key (required)
//   - model: Initial model to use (default: "gpt-5-nano")
//
// Returns an error if the API key is missing.
func NewOpenAIProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = config.ProviderDefaultBaseURL(config.ProviderOpenAI)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI %w", config.ErrMissingAPIKey)
	}
	if model == "" {
		model = config.ModelChoicesFor(config.ProviderOpenAI)[0]
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:  client,
		model:   model,
		baseURL: baseURL,
		issued:  newTranscripts[[]string](),
	}, nil
}

// Complete implements model.Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	input := req.Input
	if !req.Continuation.IsZero() {
		ids, err := p.issued.resume(req.Continuation)
		if err != nil && !errors.Is(err, ErrUnknownHandle) {
			return nil, err
		}
		input = padUnanswered(ids, input)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(p.GetModel()),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: ConvertToResponsesInput(model.Request{Instructions: req.Instructions, Input: input}),
		},
	}
	if len(req.Tools) > 0 {
		params.Tools = tools.ToOpenAIResponses(req.Tools)
	}
	if !req.Continuation.IsZero() {
		params.PreviousResponseID = openai.String(req.Continuation.Token())
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] OpenAI request: model=%s items=%d tools=%d previous=%q",
			p.GetModel(), len(input), len(req.Tools), req.Continuation.Token())
	}

	resp, err := p.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI request failed: %w", err)
	}

	out := ConvertFromResponses(resp)
	if ids := callIDs(out); len(ids) > 0 {
		p.issued.put(resp.ID, ids)
	}
	return out, nil
}

func (p *OpenAIProvider) Name() string {
	return config.ProviderOpenAI
}

// GetModel implements Provider.GetModel.
func (p *OpenAIProvider) GetModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

// SetModel implements Provider.SetModel.
func (p *OpenAIProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = model
}
