package mailer

import (
	"context"
	"strings"

	apperrors "github.com/HarishchandraChaudhary/ai-email-sender/internal/errors"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/pkg/log"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/platform/email"
)

const (
	ConfirmationSimulated = "Email sending simulated successfully."
	ConfirmationSent      = "Email sent successfully."
)

// Dispatcher sends an edited draft to its recipients.
type Dispatcher interface {
	Send(ctx context.Context, recipients []string, subject, body string) (string, error)
}

// Service hands drafts to an email.Sender.
type Service struct {
	sender       email.Sender
	from         string
	confirmation string
}

var _ Dispatcher = (*Service)(nil)

// NewService returns a dispatcher that reports confirmation on success.
func NewService(sender email.Sender, from, confirmation string) *Service {
	return &Service{sender: sender, from: from, confirmation: confirmation}
}

// NewSimulated is the offline dispatcher that only logs what would be sent.
func NewSimulated(sender *email.LogSender, from string) *Service {
	return NewService(sender, from, ConfirmationSimulated)
}

// Send does not validate or de-duplicate recipients; that is left to the transport.
// Transport errors come back as a SendFailure.
func (s *Service) Send(ctx context.Context, recipients []string, subject, body string) (string, error) {
	msg := email.Message{
		From:    s.from,
		To:      append([]string(nil), recipients...),
		Subject: subject,
		Body:    body,
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return "", apperrors.NewSendFailure(msg.To, err)
	}

	log.InfoWithContext(ctx, "email dispatched to %s", strings.Join(msg.To, ", "))
	return s.confirmation, nil
}
