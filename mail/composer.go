package mail

import (
	"bytes"
	"context"
	"embed"
	"net/http"
	"strings"

	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-errors"
	"github.com/placora/backend/auth"
)

//go:embed templates
var templatesFS embed.FS

const (
	activationTemplate = "activation"
	resetTemplate      = "password_reset"

	activationSubject = "Confirm your account"
	resetSubject      = "Reset your password"
)

// Composer renders the lifecycle messages and hands them to a Notifier. It
// satisfies auth.AccountNotifier.
type Composer struct {
	notifier    auth.Notifier
	engine      *django.Engine
	frontendURL string
	logger      auth.Logger
}

var _ auth.AccountNotifier = (*Composer)(nil)

// NewComposer builds the template-backed account notifier. Links embed the
// token against the configured frontend URL.
func NewComposer(notifier auth.Notifier, frontendURL string) (*Composer, error) {
	if notifier == nil {
		return nil, errors.New("notifier is required", errors.CategoryBadInput)
	}

	engine := django.NewPathForwardingFileSystem(http.FS(templatesFS), "/templates", ".html")
	if err := engine.Load(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load mail templates")
	}

	return &Composer{
		notifier:    notifier,
		engine:      engine,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}, nil
}

// WithLogger overrides the composer logger
func (m *Composer) WithLogger(logger auth.Logger) *Composer {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// SendActivation mails the account confirmation link
func (m *Composer) SendActivation(ctx context.Context, to, token string) error {
	body, err := m.render(activationTemplate, map[string]any{
		"link": m.frontendURL + "/auth/activate/" + token,
	})
	if err != nil {
		return err
	}

	return m.notifier.Send(ctx, to, activationSubject, body)
}

// SendPasswordReset mails the password recovery link
func (m *Composer) SendPasswordReset(ctx context.Context, to, token string) error {
	body, err := m.render(resetTemplate, map[string]any{
		"link": m.frontendURL + "/reset-password/" + token,
	})
	if err != nil {
		return err
	}

	return m.notifier.Send(ctx, to, resetSubject, body)
}

func (m *Composer) render(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := m.engine.Render(&buf, name, data); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to render mail template").
			WithMetadata(map[string]any{"template": name})
	}
	return buf.String(), nil
}
