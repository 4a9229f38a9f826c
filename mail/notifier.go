package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/placora/backend/auth"
)

// SMTPConfig holds the outbound mail server options
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier delivers HTML mail over SMTP. It satisfies auth.Notifier.
type SMTPNotifier struct {
	cfg    SMTPConfig
	logger auth.Logger
	// send is swappable so tests can capture the wire payload without a server
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ auth.Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier builds a mail notifier from SMTP options
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:  cfg,
		send: smtp.SendMail,
	}
}

// WithLogger overrides the notifier logger
func (n *SMTPNotifier) WithLogger(logger auth.Logger) *SMTPNotifier {
	if logger != nil {
		n.logger = logger
	}
	return n
}

// WithSendFunc overrides the wire-level delivery function, e.g. to capture
// messages in tests or route through a relay API.
func (n *SMTPNotifier) WithSendFunc(fn func(addr string, a smtp.Auth, from string, to []string, msg []byte) error) *SMTPNotifier {
	if fn != nil {
		n.send = fn
	}
	return n
}

// Send delivers a single HTML message. The context is honored up front, the
// smtp dial itself is bounded by the server's timeouts.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "mail send canceled")
	}

	if to == "" {
		return errors.New("recipient is required", errors.CategoryBadInput)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var a smtp.Auth
	if n.cfg.Username != "" {
		a = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	msg := buildMessage(n.cfg.From, to, subject, htmlBody)

	if err := n.send(addr, a, n.cfg.From, []string{to}, msg); err != nil {
		return errors.Wrap(err, errors.CategoryExternal, "smtp delivery failed").
			WithMetadata(map[string]any{"to": to, "subject": subject})
	}

	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	return []byte(b.String())
}
