package llm

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// LangChainAdapter adapts any CompletionClient to the LangChainGo llms.Model interface
type LangChainAdapter struct {
	client CompletionClient
}

// Ensure LangChainAdapter implements llms.Model
var _ llms.Model = (*LangChainAdapter)(nil)

// NewLangChainAdapter creates a new adapter for client
func NewLangChainAdapter(client CompletionClient) *LangChainAdapter {
	return &LangChainAdapter{client: client}
}

// Call implements the deprecated Call method for backwards compatibility
func (a *LangChainAdapter) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return a.client.GenerateCompletion(ctx, prompt)
}

// GenerateContent flattens the text parts of all messages into one prompt.
func (a *LangChainAdapter) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var parts []string
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if textPart, ok := part.(llms.TextContent); ok {
				parts = append(parts, textPart.Text)
			}
		}
	}

	response, err := a.client.GenerateCompletion(ctx, strings.Join(parts, "\n"))
	if err != nil {
		return nil, err
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: response},
		},
	}, nil
}

// Health forwards to the wrapped client.
func (a *LangChainAdapter) Health(ctx context.Context) error {
	return a.client.Health(ctx)
}
