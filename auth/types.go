package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Email() string
	Role() string
}

// TokenVersioner is implemented by identities that carry a credential
// version. Tokens minted for such identities embed the version so that a
// password reset invalidates every previously issued session token.
type TokenVersioner interface {
	TokenVersion() int
}

// TokenService issues and verifies signed, time-limited tokens
type TokenService interface {
	Issue(identity Identity, purpose TokenPurpose, ttl time.Duration) (string, error)
	Verify(token string, purpose TokenPurpose) (*JWTClaims, error)
}

// Notifier is the outbound mail capability consumed by the account
// lifecycle. Delivery failures are infrastructure faults, not domain errors.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// AccountNotifier composes and dispatches the lifecycle messages. The mail
// package provides the template-backed implementation.
type AccountNotifier interface {
	SendActivation(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// UserResolver is the minimal store surface the Guard needs to attach an
// account to a request.
type UserResolver interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetContextKey() string
	GetTokenExpiration() int
	GetActivationTokenTTL() int
	GetPasswordResetTTL() int
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	GetFrontendURL() string
}

// OwnedResource is implemented by records whose mutation rights are gated
// on an owner comparison.
type OwnedResource interface {
	OwnerID() uuid.UUID
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
