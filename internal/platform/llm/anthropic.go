package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements CompletionClient on the Messages API.
type AnthropicClient struct {
	client          anthropic.Client
	completionModel string
	maxTokens       int64
}

var _ CompletionClient = (*AnthropicClient)(nil)

// AnthropicConfig contains Anthropic client configuration
type AnthropicConfig struct {
	APIKey          string
	BaseURL         string
	CompletionModel string
	MaxTokens       int64
	Timeout         time.Duration
}

// NewAnthropicClient creates a new client for the Anthropic API.
func NewAnthropicClient(config AnthropicConfig) (*AnthropicClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	if config.CompletionModel == "" {
		config.CompletionModel = "claude-3-5-haiku-latest"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1024
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicClient{
		client:          anthropic.NewClient(opts...),
		completionModel: config.CompletionModel,
		maxTokens:       config.MaxTokens,
	}, nil
}

// GenerateCompletion performs a single-turn completion and returns concatenated text.
func (c *AnthropicClient) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.completionModel),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to send request to anthropic: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("received no text content from anthropic")
	}
	return b.String(), nil
}

// Health checks Anthropic availability through the models endpoint.
func (c *AnthropicClient) Health(ctx context.Context) error {
	if _, err := c.client.Models.List(ctx, anthropic.ModelListParams{}); err != nil {
		return fmt.Errorf("anthropic service health check failed: %w", err)
	}
	return nil
}

// Name is the provider name used in logs and /health.
func (c *AnthropicClient) Name() string {
	return "anthropic"
}
