package testutil

import (
	"context"
	"sync"

	"github.com/HarishchandraChaudhary/ai-email-sender/internal/platform/email"
)

// FakeEmailSender captures emails in memory for tests.
type FakeEmailSender struct {
	mu   sync.Mutex
	Sent []email.Message
	Err  error
}

func NewFakeEmailSender() *FakeEmailSender {
	return &FakeEmailSender{Sent: make([]email.Message, 0)}
}

// Send records msg, or returns Err without recording when it is set.
func (f *FakeEmailSender) Send(ctx context.Context, msg email.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, msg)
	return nil
}

func (f *FakeEmailSender) LastSent() *email.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return nil
	}
	return &f.Sent[len(f.Sent)-1]
}

func (f *FakeEmailSender) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

func (f *FakeEmailSender) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = make([]email.Message, 0)
}
