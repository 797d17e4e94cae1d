package llm

import (
	"fmt"

	"github.com/HarishchandraChaudhary/ai-email-sender/internal/config"
)

// NewCompletionClient builds the completion client for cfg.Provider.
// The template provider has no remote client and is rejected here.
func NewCompletionClient(cfg config.GeneratorConfig) (CompletionClient, error) {
	switch cfg.Provider {
	case config.ProviderGroq:
		return NewGroqClient(GroqConfig{
			APIKey:          cfg.GroqAPIKey,
			CompletionModel: cfg.Model,
			Timeout:         cfg.RequestTimeout,
		})
	case config.ProviderOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:          cfg.OpenAIAPIKey,
			BaseURL:         cfg.OpenAIBaseURL,
			CompletionModel: cfg.Model,
			Timeout:         cfg.RequestTimeout,
		})
	case config.ProviderAnthropic:
		return NewAnthropicClient(AnthropicConfig{
			APIKey:          cfg.AnthropicAPIKey,
			CompletionModel: cfg.Model,
			Timeout:         cfg.RequestTimeout,
		})
	case config.ProviderOllama:
		return NewOllamaClient(OllamaConfig{
			BaseURL:         cfg.OllamaBaseURL,
			CompletionModel: cfg.Model,
			Timeout:         cfg.RequestTimeout,
		})
	default:
		return nil, fmt.Errorf("no completion client for provider %q", cfg.Provider)
	}
}
