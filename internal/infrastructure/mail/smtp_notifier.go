package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/civicconnect/backend/internal/domain/civic"
)

// SMTPConfig holds connection settings for the outbound mail server
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Errors for SMTP configuration
var (
	ErrSMTPConfigMissingHost = errors.New("mail: host is required")
	ErrSMTPConfigMissingFrom = errors.New("mail: from address is required")
)

// Validate validates the SMTP configuration
func (c *SMTPConfig) Validate() error {
	if c.Host == "" {
		return ErrSMTPConfigMissingHost
	}
	if c.From == "" {
		return ErrSMTPConfigMissingFrom
	}
	if c.Port <= 0 {
		c.Port = 587
	}
	return nil
}

// sendFunc matches smtp.SendMail; swapped out in tests
type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier implements civic.Notifier over plain SMTP with optional
// PLAIN auth. Messages are sent as single-part HTML.
type SMTPNotifier struct {
	config *SMTPConfig
	send   sendFunc
}

// NewSMTPNotifier creates a new SMTP notifier with the given configuration
func NewSMTPNotifier(config *SMTPConfig) (*SMTPNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SMTPNotifier{config: config, send: smtp.SendMail}, nil
}

// Send delivers a single HTML message to the recipient. The context is
// honoured up front; smtp.SendMail itself does not take one.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if to == "" {
		return errors.New("mail: recipient address is empty")
	}

	var auth smtp.Auth
	if n.config.Username != "" {
		auth = smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	}

	addr := net.JoinHostPort(n.config.Host, fmt.Sprintf("%d", n.config.Port))
	msg := buildMessage(n.config.From, to, subject, htmlBody)

	if err := n.send(addr, auth, n.config.From, []string{to}, msg); err != nil {
		return fmt.Errorf("mail: send to %s failed: %w", to, err)
	}
	return nil
}

// buildMessage assembles an RFC 5322 message with an HTML body
func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// sanitizeHeader strips CR and LF to prevent header injection
func sanitizeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", "")
	return strings.ReplaceAll(value, "\n", "")
}

// Ensure SMTPNotifier implements the civic port
var _ civic.Notifier = (*SMTPNotifier)(nil)
