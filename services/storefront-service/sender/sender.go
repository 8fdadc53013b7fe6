package sender

import (
	"context"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

type Recipient struct {
	Email string
	Name  string
}

// Email is a rendered transactional message. Params are passed through to
// providers that support template variables and ignored by the rest.
type Email struct {
	To       Recipient
	Subject  string
	HTMLBody string
	Params   map[string]string
}

type EmailSender interface {
	SendEmail(ctx context.Context, email Email) (SendResult, error)
}
