package testutil

import (
	"context"
	"sync"

	"github.com/HarishchandraChaudhary/ai-email-sender/internal/generator"
)

// FakeGenerator returns a fixed draft and counts calls.
type FakeGenerator struct {
	mu      sync.Mutex
	Draft   generator.Draft
	Err     error
	Prompts []string
}

func (f *FakeGenerator) Generate(ctx context.Context, prompt string) (generator.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return generator.Draft{}, f.Err
	}
	return f.Draft, nil
}

func (f *FakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Prompts)
}
