package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIClient talks to any OpenAI compatible chat completions API.
// Groq is served by the same client with a different base URL.
type OpenAIClient struct {
	client          *openai.Client
	completionModel string
	name            string
}

var _ CompletionClient = (*OpenAIClient)(nil)

// OpenAIConfig contains OpenAI client configuration
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	CompletionModel string
	Timeout         time.Duration
}

// GroqConfig contains Groq client configuration
type GroqConfig struct {
	APIKey          string
	CompletionModel string
	Timeout         time.Duration
}

// NewOpenAIClient creates a new client for interacting with the OpenAI API.
func NewOpenAIClient(config OpenAIConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.CompletionModel == "" {
		config.CompletionModel = openai.GPT4oMini
	}
	return newOpenAICompatible("openai", config), nil
}

// NewGroqClient creates a new client for interacting with the Groq API.
func NewGroqClient(config GroqConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Groq API key is required")
	}
	if config.CompletionModel == "" {
		config.CompletionModel = "llama-3.1-8b-instant"
	}
	return newOpenAICompatible("groq", OpenAIConfig{
		APIKey:          config.APIKey,
		BaseURL:         groqBaseURL,
		CompletionModel: config.CompletionModel,
		Timeout:         config.Timeout,
	}), nil
}

func newOpenAICompatible(name string, config OpenAIConfig) *OpenAIClient {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &OpenAIClient{
		client:          openai.NewClientWithConfig(clientConfig),
		completionModel: config.CompletionModel,
		name:            name,
	}
}

// GenerateCompletion sends a prompt as a single user message and returns the first choice.
func (c *OpenAIClient) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.completionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to send request to %s: %w", c.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("received no choices from %s", c.name)
	}

	return resp.Choices[0].Message.Content, nil
}

// Health lists models, which is cheap and authenticated.
func (c *OpenAIClient) Health(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("%s service health check failed: %w", c.name, err)
	}
	return nil
}

// Name is the provider name used in logs and /health.
func (c *OpenAIClient) Name() string {
	return c.name
}
