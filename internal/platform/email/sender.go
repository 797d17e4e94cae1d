package email

import (
	"context"
	"errors"
)

// ErrInvalidAddress is returned by transports that reject a malformed address.
var ErrInvalidAddress = errors.New("invalid email address")

// Message represents an email to be sent.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string // plain text
}

// Sender abstracts email sending for DI and testing.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
