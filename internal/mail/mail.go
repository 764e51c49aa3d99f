// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail delivers outgoing plain-text email. Two backends exist: SMTP
// via go-mail for real delivery and a console backend that writes messages
// to the log during development.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"pressroom/internal/config"
)

// ErrTransport marks a failure to hand a message to the mail server. It is
// never retried.
var ErrTransport = errors.New("mail transport failed")

// Message is a plain-text email. The sender address is chosen by the Sender.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the Sender configured by cfg.MailBackend.
func New(cfg *config.Config, logger *slog.Logger) (Sender, error) {
	switch cfg.MailBackend {
	case config.MailBackendSMTP:
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	case config.MailBackendConsole:
		return NewConsoleSender(cfg.MailFrom, logger), nil
	default:
		return nil, fmt.Errorf("unknown mail backend %q", cfg.MailBackend)
	}
}

// SMTPConfig holds the connection settings for SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers mail through an SMTP server. STARTTLS is used when
// the server offers it.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender creates an SMTPSender. No connection is made until Send.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

// Send builds the message and delivers it in a single SMTP session.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := build(s.from, msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

// build converts msg into a go-mail message.
func build(from string, msg Message) (*gomail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("compose message: no recipients")
	}

	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("compose message: from: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("compose message: to: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("compose message: reply-to: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return m, nil
}

// ConsoleSender logs messages instead of delivering them.
type ConsoleSender struct {
	from   string
	logger *slog.Logger
}

// NewConsoleSender returns a ConsoleSender writing to logger, or to the
// default logger when nil.
func NewConsoleSender(from string, logger *slog.Logger) *ConsoleSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleSender{from: from, logger: logger}
}

// Send validates the message the same way the SMTP backend does and logs it.
func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	if _, err := build(s.from, msg); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "mail (console backend)",
		"from", s.from,
		"to", strings.Join(msg.To, ", "),
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
