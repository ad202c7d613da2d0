package config

import (
	"errors"
	"fmt"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// ErrMissingAPIKey is returned by Validate when a cloud provider is selected
// but no credential is available.
var ErrMissingAPIKey = errors.New("API key is required")

// IsKnownProvider reports whether id names a supported provider.
func IsKnownProvider(id string) bool {
	switch id {
	case ProviderOpenAI, ProviderAnthropic, ProviderOllama:
		return true
	default:
		return false
	}
}

// ModelChoicesFor returns the enumerated model identifiers offered for a
// provider when the user config does not list its own.
func ModelChoicesFor(providerID string) []string {
	switch providerID {
	case ProviderOpenAI:
		return []string{"gpt-5-nano", "gpt-4o-mini"}
	case ProviderAnthropic:
		return []string{"claude-sonnet-4-5-20250929", "claude-3-5-haiku-20241022"}
	case ProviderOllama:
		return []string{"llama3.1:latest", "qwen2.5:latest"}
	default:
		return nil
	}
}

// SetAPIKey stores a provider credential and persists the credential store.
func SetAPIKey(cfg *Config, providerID, apiKey string) error {
	if !IsKnownProvider(providerID) {
		return fmt.Errorf("unknown provider: %s", providerID)
	}
	if cfg.CredentialStore == nil {
		return fmt.Errorf("credential store not loaded")
	}

	if apiKey == "" {
		if err := cfg.CredentialStore.Delete(providerID); err != nil {
			return fmt.Errorf("failed to delete API key: %w", err)
		}
	} else if err := cfg.CredentialStore.Set(providerID, apiKey); err != nil {
		return fmt.Errorf("failed to set API key: %w", err)
	}

	if err := cfg.CredentialStore.Save(cfg.DataDir()); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}
	return nil
}

// ProviderDisplayName returns the display name for a provider
func ProviderDisplayName(providerID string) string {
	switch providerID {
	case ProviderOllama:
		return "Ollama"
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderOpenAI:
		return "OpenAI"
	default:
		return providerID
	}
}

// ProviderDefaultBaseURL returns the default base URL for a provider
func ProviderDefaultBaseURL(providerID string) string {
	switch providerID {
	case ProviderAnthropic:
		return "https://api.anthropic.com"
	case ProviderOpenAI:
		return "https://api.openai.com/v1"
	case ProviderOllama:
		return "http://localhost:11434"
	default:
		return ""
	}
}
