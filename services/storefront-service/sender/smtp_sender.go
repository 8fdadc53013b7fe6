package sender

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"time"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

type SMTPSender struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("SMTP_HOST not set")
	}
	if cfg.Port == "" {
		return nil, errors.New("SMTP_PORT not set")
	}
	if cfg.Username == "" {
		return nil, errors.New("SMTP_USER not set")
	}
	if cfg.Password == "" {
		return nil, errors.New("SMTP_PASS not set")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{cfg: cfg, send: smtp.SendMail}, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, email Email) (SendResult, error) {
	if email.To.Email == "" {
		return SendResult{}, errors.New("missing recipient email")
	}
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := s.send(addr, auth, s.cfg.From, []string{email.To.Email}, s.buildMessage(email)); err != nil {
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}

	return SendResult{
		MessageID: fmt.Sprintf("smtp-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}

func (s *SMTPSender) buildMessage(email Email) []byte {
	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.cfg.FromName), s.cfg.From)
	}
	to := email.To.Email
	if email.To.Name != "" {
		to = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", email.To.Name), email.To.Email)
	}

	return []byte(
		"From: " + from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + mime.QEncoding.Encode("utf-8", email.Subject) + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			email.HTMLBody,
	)
}
