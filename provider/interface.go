// Package provider implements model.Provider for the supported model
// services.
//
// Every provider answers one model.Request with one model.Response and hands
// back an opaque model.Handle. The OpenAI provider maps the handle onto the
// Responses API's previous_response_id; Anthropic and Ollama have no
// server-side conversation state, so their providers keep the transcript
// locally and key it by a generated handle.
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:   provider.ProviderTypeOpenAI,
//	    APIKey: "sk-...",
//	    Model:  "gpt-5-nano",
//	})
//	if err != nil {
//	    // handle error
//	}
//	resp, err := p.Complete(ctx, model.Request{Input: ...})
package provider

// Note: The Provider interface is defined in the model package
// (model/provider.go) to avoid import cycles. This package implements model.Provider.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama    ProviderType = "ollama"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // For OpenAI/Anthropic (unused for Ollama)
}
