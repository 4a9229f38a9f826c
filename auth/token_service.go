package auth

import (
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// tokenService implements the TokenService interface. The signing key is
// fixed at construction and read-only for the life of the process.
type tokenService struct {
	signingKey    []byte
	sessionTTL    time.Duration
	activationTTL time.Duration
	resetTTL      time.Duration
	issuer        string
	audience      jwt.ClaimStrings
	keyFunc       jwt.Keyfunc
	logger        Logger
}

// TokenServiceOption customizes token service construction
type TokenServiceOption func(*tokenService)

// WithKeyfunc overrides key resolution during verification, e.g. for tokens
// signed by an external identity provider publishing a JWK Set.
func WithKeyfunc(fn jwt.Keyfunc) TokenServiceOption {
	return func(ts *tokenService) {
		if fn != nil {
			ts.keyFunc = fn
		}
	}
}

// NewTokenService creates a new TokenService from auth configuration
func NewTokenService(cfg Config, logger Logger, opts ...TokenServiceOption) TokenService {
	if logger == nil {
		logger = defLogger{}
	}

	ts := &tokenService{
		signingKey:    []byte(cfg.GetSigningKey()),
		sessionTTL:    hoursOrDefault(cfg.GetTokenExpiration(), 24),
		activationTTL: hoursOrDefault(cfg.GetActivationTokenTTL(), 24),
		resetTTL:      hoursOrDefault(cfg.GetPasswordResetTTL(), 1),
		issuer:        cfg.GetIssuer(),
		audience:      jwt.ClaimStrings(cfg.GetAudience()),
		logger:        logger,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

func hoursOrDefault(hours, def int) time.Duration {
	if hours <= 0 {
		hours = def
	}
	return time.Duration(hours) * time.Hour
}

// Issue signs a claim set for the identity, scoped to purpose. A zero ttl
// uses the configured default for that purpose.
func (ts *tokenService) Issue(identity Identity, purpose TokenPurpose, ttl time.Duration) (string, error) {
	if identity == nil {
		return "", errors.New("identity is required", errors.CategoryBadInput)
	}

	if ttl < 0 {
		return "", errors.New("token TTL must be non-negative", errors.CategoryBadInput)
	}

	if ttl == 0 {
		ttl = ts.defaultTTL(purpose)
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		UID:      identity.ID(),
		UserRole: identity.Role(),
		Purpose:  purpose,
	}

	if versioned, ok := identity.(TokenVersioner); ok {
		claims.TokenVersion = versioned.TokenVersion()
	}

	return ts.signClaims(claims)
}

func (ts *tokenService) signClaims(claims *JWTClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Verify parses and validates a token string. Expiry and invalidity are
// distinct outcomes so callers can offer "resend" vs "retry". A purpose
// mismatch is invalid, never expired.
func (ts *tokenService) Verify(tokenString string, purpose TokenPurpose) (*JWTClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	keyFunc := ts.keyFunc
	if keyFunc == nil {
		keyFunc = func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				ts.logger.Error("token verify encountered unexpected signing method: %v", t.Header["alg"])
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return ts.signingKey, nil
		}
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, keyFunc, parserOptions...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(TextCodeTokenInvalid).
			WithCode(errors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token verify could not decode claims")
		return nil, ErrTokenInvalid
	}

	if claims.Purpose != purpose {
		ts.logger.Warn("token presented for wrong purpose: want %s got %s", purpose, claims.Purpose)
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (ts *tokenService) defaultTTL(purpose TokenPurpose) time.Duration {
	switch purpose {
	case PurposeActivation:
		return ts.activationTTL
	case PurposePasswordReset:
		return ts.resetTTL
	default:
		return ts.sessionTTL
	}
}

// JWKSKeyfunc builds a verification keyfunc from one or more JWK Set URLs.
// Use with WithKeyfunc when sessions are minted by an external provider.
func JWKSKeyfunc(urls ...string) (jwt.Keyfunc, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one JWK Set URL is required", errors.CategoryBadInput)
	}

	opts := make(map[string]keyfunc.Options, len(urls))
	for _, url := range urls {
		opts[url] = keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute * 5,
			RefreshTimeout:    time.Second * 10,
			RefreshUnknownKID: true,
		}
	}

	jwks, err := keyfunc.GetMultiple(opts, keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "failed to fetch JWK Sets")
	}

	return jwks.Keyfunc, nil
}
