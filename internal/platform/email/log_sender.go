package email

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/HarishchandraChaudhary/ai-email-sender/internal/pkg/log"
)

// LogSender simulates delivery by printing the message. It never fails.
type LogSender struct {
	mu  sync.Mutex
	out io.Writer
}

var _ Sender = (*LogSender)(nil)

// NewLogSender writes to out, or stdout when out is nil.
func NewLogSender(out io.Writer) *LogSender {
	if out == nil {
		out = os.Stdout
	}
	return &LogSender{out: out}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	var b strings.Builder
	b.WriteString("\n--- Email Sending Simulation ---\n")
	fmt.Fprintf(&b, "Recipients: %s\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	fmt.Fprintf(&b, "Body:\n%s\n", msg.Body)
	b.WriteString("--------------------------------\n")

	// one write per message so concurrent sends don't interleave
	s.mu.Lock()
	_, err := io.WriteString(s.out, b.String())
	s.mu.Unlock()
	if err != nil {
		log.WarnWithContext(ctx, "simulated send could not be printed: %v", err)
	}
	return nil
}
