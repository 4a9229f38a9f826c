package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// GuardConfig configures the request boundary filter
type GuardConfig struct {
	// Filter skips the guard for matching requests
	Filter func(*fiber.Ctx) bool
	// ErrorHandler renders rejections. Defaults to RespondError.
	ErrorHandler fiber.ErrorHandler
	// Tokens verifies session tokens. Required.
	Tokens TokenService
	// Users resolves the token subject to an account. Required.
	Users UserResolver
	// ContextKey is the locals key for the resolved account. Defaults to "user".
	ContextKey string
	// ClaimsKey is the locals key for the verified claims. Defaults to "claims".
	ClaimsKey string
	// Sink receives guard rejection events for telemetry.
	Sink ActivitySink
	// Logger defaults to the package logger.
	Logger Logger
}

// NewGuard returns the middleware applied to every protected endpoint. It
// validates the bearer token, resolves the subject account, and attaches
// both to the request context. Any failure short-circuits the request as
// an authentication error before the handler runs.
func NewGuard(cfg GuardConfig) fiber.Handler {
	if cfg.Tokens == nil {
		panic("auth: guard requires a token service")
	}
	if cfg.Users == nil {
		panic("auth: guard requires a user resolver")
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = RespondError
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}
	if cfg.ClaimsKey == "" {
		cfg.ClaimsKey = "claims"
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}
	sink := normalizeActivitySink(cfg.Sink)

	reject := func(c *fiber.Ctx, cause error) error {
		event := ActivityEvent{
			EventType:  ActivityEventGuardRejection,
			Actor:      ActorRef{Type: "unknown"},
			Metadata:   map[string]any{"path": c.Path(), "error": cause.Error()},
			OccurredAt: time.Now(),
		}
		if err := sink.Record(c.UserContext(), event); err != nil {
			cfg.Logger.Warn("activity sink record error: %v", err)
		}

		return cfg.ErrorHandler(c, errors.Wrap(cause, ErrUnauthenticated.Category, ErrUnauthenticated.Message).
			WithTextCode(TextCodeUnauthenticated).
			WithCode(errors.CodeUnauthorized))
	}

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return reject(c, errors.New("missing token", errors.CategoryAuth))
		}

		token, err := ExtractBearer(header)
		if err != nil {
			return reject(c, err)
		}

		claims, err := cfg.Tokens.Verify(token, PurposeSession)
		if err != nil {
			return reject(c, err)
		}

		user, err := cfg.Users.GetByIdentifier(c.UserContext(), claims.UserID())
		if err != nil {
			return reject(c, err)
		}

		if claims.TokenVersion != user.TokenVersion {
			return reject(c, errors.New("token has been retired", errors.CategoryAuth))
		}

		c.Locals(cfg.ContextKey, user)
		c.Locals(cfg.ClaimsKey, claims)
		c.SetUserContext(withIdentity(c.UserContext(), user, claims))

		return c.Next()
	}
}

func withIdentity(ctx context.Context, user *User, claims *JWTClaims) context.Context {
	return WithClaims(WithAccount(ctx, user), claims)
}
