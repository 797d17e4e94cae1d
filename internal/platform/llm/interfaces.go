package llm

import "context"

// CompletionClient is responsible for generating text responses from a prompt.
type CompletionClient interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
	Health(ctx context.Context) error
}
