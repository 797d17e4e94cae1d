package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// OllamaClient implements CompletionClient for a local Ollama server
type OllamaClient struct {
	client          *ollama.Client
	baseURL         string
	completionModel string
}

var _ CompletionClient = (*OllamaClient)(nil)

// OllamaConfig contains Ollama client configuration
type OllamaConfig struct {
	BaseURL         string
	CompletionModel string
	Timeout         time.Duration
}

// NewOllamaClient creates a new Ollama client with sensible defaults
func NewOllamaClient(config OllamaConfig) (*OllamaClient, error) {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.CompletionModel == "" {
		config.CompletionModel = "llama3"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	u, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_BASE_URL %q: %w", config.BaseURL, err)
	}

	return &OllamaClient{
		client:          ollama.NewClient(u, &http.Client{Timeout: config.Timeout}),
		baseURL:         u.String(),
		completionModel: config.CompletionModel,
	}, nil
}

// GenerateCompletion generates text completions from prompts
func (c *OllamaClient) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &ollama.GenerateRequest{
		Model:  c.completionModel,
		Prompt: prompt,
		Stream: &stream,
	}

	var text strings.Builder
	err := c.client.Generate(ctx, req, func(resp ollama.GenerateResponse) error {
		text.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama service is not available - please ensure ollama is running at %s: %w", c.baseURL, err)
	}

	return text.String(), nil
}

// Health checks Ollama service availability
func (c *OllamaClient) Health(ctx context.Context) error {
	if err := c.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama service is not available at %s - please ensure ollama is running: %w", c.baseURL, err)
	}
	return nil
}

// Name is the provider name used in logs and /health.
func (c *OllamaClient) Name() string {
	return "ollama"
}
