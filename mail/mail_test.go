package mail_test

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/placora/backend/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNotifier captures composed messages
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

func TestComposer_SendActivation(t *testing.T) {
	notifier := &MockNotifier{}
	notifier.On("Send", mock.Anything, "peter@example.com", "Confirm your account",
		mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "http://localhost:4200/auth/activate/the-token")
		})).Return(nil)

	composer, err := mail.NewComposer(notifier, "http://localhost:4200/")
	assert.NoError(t, err)

	err = composer.SendActivation(context.Background(), "peter@example.com", "the-token")
	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestComposer_SendPasswordReset(t *testing.T) {
	notifier := &MockNotifier{}
	notifier.On("Send", mock.Anything, "peter@example.com", "Reset your password",
		mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "http://localhost:4200/reset-password/the-token")
		})).Return(nil)

	composer, err := mail.NewComposer(notifier, "http://localhost:4200")
	assert.NoError(t, err)

	err = composer.SendPasswordReset(context.Background(), "peter@example.com", "the-token")
	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestComposer_RequiresNotifier(t *testing.T) {
	_, err := mail.NewComposer(nil, "http://localhost:4200")
	assert.Error(t, err)
}

func TestSMTPNotifier_Send(t *testing.T) {
	t.Run("builds an HTML message", func(t *testing.T) {
		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte

		n := mail.NewSMTPNotifier(mail.SMTPConfig{
			Host: "smtp.example.com",
			Port: 587,
			From: "noreply@placora.app",
		}).WithSendFunc(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		})

		err := n.Send(context.Background(), "peter@example.com", "Hello", "<p>Hi</p>")
		assert.NoError(t, err)
		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, "noreply@placora.app", gotFrom)
		assert.Equal(t, []string{"peter@example.com"}, gotTo)
		assert.Contains(t, string(gotMsg), "Content-Type: text/html")
		assert.Contains(t, string(gotMsg), "<p>Hi</p>")
	})

	t.Run("rejects empty recipients", func(t *testing.T) {
		n := mail.NewSMTPNotifier(mail.SMTPConfig{Host: "smtp.example.com", Port: 587})
		err := n.Send(context.Background(), "", "Hello", "<p>Hi</p>")
		assert.Error(t, err)
	})

	t.Run("honors a canceled context", func(t *testing.T) {
		n := mail.NewSMTPNotifier(mail.SMTPConfig{Host: "smtp.example.com", Port: 587})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := n.Send(ctx, "peter@example.com", "Hello", "<p>Hi</p>")
		assert.Error(t, err)
	})
}
