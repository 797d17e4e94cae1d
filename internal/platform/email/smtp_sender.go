package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// SMTPSender is the production implementation of the Sender interface.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	dialer   *net.Dialer
	now      func() time.Time
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender creates a new SMTP sender. Host and port are required.
func NewSMTPSender(host, port, username, password string) (*SMTPSender, error) {
	if host == "" || port == "" {
		return nil, fmt.Errorf("SMTP host and port are required")
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		dialer:   &net.Dialer{Timeout: 30 * time.Second},
		now:      time.Now,
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return fmt.Errorf("%w: sender %q", ErrInvalidAddress, msg.From)
	}

	to := make([]*mail.Address, 0, len(msg.To))
	for _, raw := range msg.To {
		addr, err := mail.ParseAddress(raw)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
		}
		to = append(to, addr)
	}
	if len(to) == 0 {
		return fmt.Errorf("%w: no recipients", ErrInvalidAddress)
	}

	envelope := lo.Uniq(lo.Map(to, func(a *mail.Address, _ int) string {
		return strings.ToLower(a.Address)
	}))

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	data := s.buildMessage(from, to, msg)
	addr := net.JoinHostPort(s.host, s.port)

	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s failed: %w", addr, err)
	}
	defer conn.Close()

	// Closing the connection aborts the transaction before the final reply,
	// so an error from Send means the relay did not accept the message.
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := s.transact(conn, auth, from.Address, envelope, data); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("smtp delivery via %s aborted: %w", addr, ctxErr)
		}
		return fmt.Errorf("smtp delivery via %s failed: %w", addr, err)
	}
	return nil
}

// transact runs one SMTP session on conn. The message counts as sent once
// the relay accepts DATA; a failing QUIT after that is ignored.
func (s *SMTPSender) transact(conn net.Conn, auth smtp.Auth, from string, to []string, data []byte) error {
	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return err
		}
	}
	if auth != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp: server doesn't support AUTH")
		}
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	_ = c.Quit()
	return nil
}

// buildMessage renders an RFC 5322 message with a plain-text UTF-8 body.
func (s *SMTPSender) buildMessage(from *mail.Address, to []*mail.Address, msg Message) []byte {
	var b strings.Builder
	header := func(k, v string) {
		fmt.Fprintf(&b, "%s: %s\r\n", k, v)
	}

	header("From", from.String())
	header("To", strings.Join(lo.Map(to, func(a *mail.Address, _ int) string { return a.String() }), ", "))
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", s.now().Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(msg.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
