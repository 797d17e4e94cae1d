package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	apperrors "github.com/HarishchandraChaudhary/ai-email-sender/internal/errors"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/pkg/log"
)

const draftInstructions = `You are an assistant that writes professional emails.
Write an email for the following request: '{{.prompt}}'.
You must follow these rules:
1. Use "[Recipient Name]" where the recipient's name belongs and "[Your Name]" for the sender's signature.
2. Keep the subject under 80 characters.
3. Your response MUST be ONLY a raw JSON object with the keys "subject" and "body", with no other text, comments, or explanations.
Example response: {"subject": "Project update for Q3", "body": "Dear [Recipient Name],\n\n...\n\nBest regards,\n[Your Name]"}`

// ServiceConfig bounds how the Service uses its model.
type ServiceConfig struct {
	MaxConcurrent  int
	RequestTimeout time.Duration
	QueueTimeout   time.Duration
}

// Service generates drafts with a language model, limiting concurrent calls.
type Service struct {
	compClient     llms.Model
	template       prompts.PromptTemplate
	semaphore      chan struct{}
	maxConcurrent  int
	requestTimeout time.Duration
	queueTimeout   time.Duration
}

var _ Generator = (*Service)(nil)

// NewService creates a new generator service with concurrent request limiting.
func NewService(compClient llms.Model, config ServiceConfig) *Service {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 2
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 60 * time.Second
	}
	if config.QueueTimeout <= 0 {
		config.QueueTimeout = 5 * time.Second
	}
	return &Service{
		compClient:     compClient,
		template:       prompts.NewPromptTemplate(draftInstructions, []string{"prompt"}),
		semaphore:      make(chan struct{}, config.MaxConcurrent),
		maxConcurrent:  config.MaxConcurrent,
		requestTimeout: config.RequestTimeout,
		queueTimeout:   config.QueueTimeout,
	}
}

// Generate asks the model for a draft. Every error is a GenerationFailure.
func (s *Service) Generate(ctx context.Context, prompt string) (Draft, error) {
	timer := time.NewTimer(s.queueTimeout)
	defer timer.Stop()

	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	case <-timer.C:
		return Draft{}, apperrors.NewGenerationFailure(apperrors.ErrGeneratorBusy)
	case <-ctx.Done():
		return Draft{}, apperrors.NewGenerationFailure(ctx.Err())
	}

	genCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	draft, err := s.generate(genCtx, prompt)
	if err != nil {
		return Draft{}, apperrors.NewGenerationFailure(err)
	}
	return draft, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (Draft, error) {
	formattedPrompt, err := s.template.Format(map[string]any{
		"prompt": prompt,
	})
	if err != nil {
		return Draft{}, fmt.Errorf("failed to format prompt: %w", err)
	}

	started := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, s.compClient, formattedPrompt)
	if err != nil {
		return Draft{}, fmt.Errorf("llm client failed to generate draft: %w", err)
	}
	log.DebugWithContext(ctx, "llm draft generated in %s", time.Since(started))

	return parseDraft(response)
}

// parseDraft accepts a bare JSON object, optionally wrapped in a code fence
// or surrounded by chatter.
func parseDraft(response string) (Draft, error) {
	raw := strings.TrimSpace(response)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return Draft{}, fmt.Errorf("LLM response contains no JSON object. Raw response: %s", response)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(raw[start:end+1]), &draft); err != nil {
		return Draft{}, fmt.Errorf("failed to parse LLM JSON response: %w. Raw response: %s", err, response)
	}

	draft.Subject = strings.TrimSpace(draft.Subject)
	draft.Body = strings.TrimSpace(draft.Body)
	if draft.Subject == "" || draft.Body == "" {
		return Draft{}, apperrors.ErrEmptyDraft
	}
	return draft, nil
}

// Status returns the current status of concurrent request handling.
func (s *Service) Status() map[string]interface{} {
	activeRequests := len(s.semaphore)
	availableSlots := s.maxConcurrent - activeRequests

	return map[string]interface{}{
		"max_concurrent":     s.maxConcurrent,
		"active_requests":    activeRequests,
		"available_slots":    availableSlots,
		"request_timeout":    s.requestTimeout.String(),
		"can_accept_request": availableSlots > 0,
	}
}
