package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/HarishchandraChaudhary/ai-email-sender/internal/pkg/log"
)

const (
	subjectPrefix   = "Follow-up Regarding: "
	subjectEllipsis = "..."
	subjectMaxRunes = 50
)

const bodyTemplate = `
Dear [Recipient Name],

This email is in reference to the following topic: "%s".

Based on your request, here is a draft:
[AI generated content here]

Please let me know if you have any questions or require further details.

Best regards,
[Your Name]
`

// Draft is a generated email the user edits before sending.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Generator turns a prompt into a Draft.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Draft, error)
}

// TemplateGenerator builds drafts from a fixed template without calling a model.
type TemplateGenerator struct{}

var _ Generator = TemplateGenerator{}

// NewTemplateGenerator returns the offline generator.
func NewTemplateGenerator() TemplateGenerator {
	return TemplateGenerator{}
}

// Generate never fails.
func (TemplateGenerator) Generate(ctx context.Context, prompt string) (Draft, error) {
	log.InfoWithContext(ctx, "Simulating AI generation for prompt: %s", prompt)
	return Draft{
		Subject: Subject(prompt),
		Body:    strings.TrimSpace(fmt.Sprintf(bodyTemplate, prompt)),
	}, nil
}

// Subject prefixes the first 50 characters of the prompt and always appends an ellipsis.
func Subject(prompt string) string {
	runes := []rune(prompt)
	if len(runes) > subjectMaxRunes {
		runes = runes[:subjectMaxRunes]
	}
	return subjectPrefix + string(runes) + subjectEllipsis
}
