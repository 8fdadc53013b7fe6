package sender

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	brevo "github.com/getbrevo/brevo-go/lib"
)

type BrevoConfig struct {
	APIKey      string
	SenderName  string
	SenderEmail string
	// BaseURL overrides the API base path (default https://api.brevo.com/v3).
	BaseURL string
}

// BrevoSender sends transactional email through the Brevo SDK.
type BrevoSender struct {
	client *brevo.APIClient
	sender brevo.SendSmtpEmailSender
}

func NewBrevoSender(cfg BrevoConfig) (*BrevoSender, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("BREVO_API_KEY not set")
	}
	if cfg.SenderEmail == "" {
		return nil, errors.New("EMAIL_SENDER_ADDRESS not set")
	}

	conf := brevo.NewConfiguration()
	conf.AddDefaultHeader("api-key", cfg.APIKey)
	conf.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	if cfg.BaseURL != "" {
		conf.BasePath = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &BrevoSender{
		client: brevo.NewAPIClient(conf),
		sender: brevo.SendSmtpEmailSender{Name: cfg.SenderName, Email: cfg.SenderEmail},
	}, nil
}

func (b *BrevoSender) SendEmail(ctx context.Context, email Email) (SendResult, error) {
	if strings.TrimSpace(email.To.Email) == "" {
		return SendResult{}, errors.New("missing recipient email")
	}

	params := make(map[string]interface{}, len(email.Params))
	for k, v := range email.Params {
		params[k] = v
	}

	sender := b.sender
	msg := brevo.SendSmtpEmail{
		Sender:      &sender,
		To:          []brevo.SendSmtpEmailTo{{Email: email.To.Email, Name: email.To.Name}},
		ReplyTo:     &brevo.SendSmtpEmailReplyTo{Email: sender.Email, Name: sender.Name},
		Subject:     email.Subject,
		HtmlContent: email.HTMLBody,
		Params:      params,
		Headers:     map[string]interface{}{"X-Mailin-Tag": "order-confirmation"},
	}

	out, _, err := b.client.TransactionalEmailsApi.SendTransacEmail(ctx, msg)
	if err != nil {
		return SendResult{}, fmt.Errorf("brevo send failed: %w", err)
	}

	messageID := out.MessageId
	if messageID == "" {
		messageID = fmt.Sprintf("brevo-%d", time.Now().UnixNano())
	}
	return SendResult{MessageID: messageID, SentAt: time.Now()}, nil
}
