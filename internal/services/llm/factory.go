package llm

import (
	"github.com/fridgechef/gusteau/internal/config"
	"github.com/fridgechef/gusteau/internal/errors"
)

// NewProvider creates the model provider stack from the configuration:
// the configured primary adapter, optionally wrapped with a fallback to
// the other vendor when both credentials are present, and always wrapped
// with the bounded retry policy.
func NewProvider(cfg *config.Config) (Provider, error) {
	if cfg.AnthropicAPIKey == "" && cfg.OpenAIAPIKey == "" {
		return nil, errors.NewConfigurationError(
			"no model credential found",
			"NO_MODEL_CREDENTIAL",
			"Set ANTHROPIC_API_KEY or OPENAI_API_KEY in the secrets file or environment.",
		)
	}

	primary, primaryName := buildProvider(cfg, cfg.LLM.Provider)

	if cfg.LLM.FallbackEnabled && cfg.AnthropicAPIKey != "" && cfg.OpenAIAPIKey != "" {
		fallbackName := cfg.LLM.FallbackProvider
		if fallbackName == primaryName {
			// A provider falling back to itself is pointless; use the other one.
			fallbackName = otherProvider(primaryName)
		}
		secondary, secondaryName := buildProvider(cfg, fallbackName)
		return NewRetryingProvider(NewFallbackProvider(primary, secondary, primaryName, secondaryName)), nil
	}

	return NewRetryingProvider(primary), nil
}

// buildProvider returns the adapter for the requested vendor, substituting
// the other vendor when the requested one has no credential configured.
func buildProvider(cfg *config.Config, name string) (Provider, string) {
	switch name {
	case string(ProviderOpenAI):
		if cfg.OpenAIAPIKey == "" {
			return NewAnthropicProvider(cfg.AnthropicAPIKey), string(ProviderAnthropic)
		}
		return NewOpenAIProvider(cfg.OpenAIAPIKey), string(ProviderOpenAI)
	default:
		if cfg.AnthropicAPIKey == "" {
			return NewOpenAIProvider(cfg.OpenAIAPIKey), string(ProviderOpenAI)
		}
		return NewAnthropicProvider(cfg.AnthropicAPIKey), string(ProviderAnthropic)
	}
}

func otherProvider(name string) string {
	if name == string(ProviderAnthropic) {
		return string(ProviderOpenAI)
	}
	return string(ProviderAnthropic)
}
