package provider

import (
	"fmt"

	"rtui/config"
	"rtui/model"
)

// NewProvider creates a provider based on configuration.
//
// Returns an error if the provider type is unknown or the provider-specific
// constructor fails (missing API key, invalid URL).
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts config provider ID to factory ProviderType.
// Unknown IDs are passed through and rejected by NewProvider.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case config.ProviderOllama:
		return ProviderTypeOllama
	case config.ProviderOpenAI:
		return ProviderTypeOpenAI
	case config.ProviderAnthropic:
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}

// FromConfig creates the configured provider with its credential. Callers
// are expected to have run cfg.Validate.
func FromConfig(cfg *config.Config) (model.Provider, error) {
	p, err := NewProvider(Config{
		Type:    MapProviderIDToType(cfg.ProviderType),
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model(),
		APIKey:  cfg.APIKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", config.ProviderDisplayName(cfg.ProviderType), err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] Initialized provider: %s (model: %s)", p.Name(), p.GetModel())
	}
	return p, nil
}
