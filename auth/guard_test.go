package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/placora/backend/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newGuardedApp(t *testing.T, tokens auth.TokenService, users auth.UserResolver) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Use(auth.NewGuard(auth.GuardConfig{
		Tokens: tokens,
		Users:  users,
	}))
	app.Get("/protected", func(c *fiber.Ctx) error {
		account, ok := auth.AccountFromRouter(c, "")
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.JSON(fiber.Map{"id": account.ID.String()})
	})

	return app
}

func protectedRequest(authorization string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	return req
}

func TestGuard(t *testing.T) {
	svc := newTestTokenService()
	user := testUser()

	users := &MockUsers{}
	users.On("GetByIdentifier", mock.Anything, user.ID.String()).Return(user, nil)

	app := newGuardedApp(t, svc, users)

	t.Run("valid session reaches the handler", func(t *testing.T) {
		token, err := svc.Issue(auth.NewIdentityFromUser(user), auth.PurposeSession, 0)
		assert.NoError(t, err)

		res, err := app.Test(protectedRequest("Bearer " + token))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		res, err := app.Test(protectedRequest(""))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		res, err := app.Test(protectedRequest("Token abc"))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := svc.Issue(auth.NewIdentityFromUser(user), auth.PurposeSession, time.Nanosecond)
		assert.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		res, err := app.Test(protectedRequest("Bearer " + token))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		token, err := svc.Issue(auth.NewIdentityFromUser(user), auth.PurposeSession, 0)
		assert.NoError(t, err)

		res, err := app.Test(protectedRequest("Bearer " + token + "x"))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("activation token cannot open a session", func(t *testing.T) {
		token, err := svc.Issue(auth.NewIdentityFromUser(user), auth.PurposeActivation, 0)
		assert.NoError(t, err)

		res, err := app.Test(protectedRequest("Bearer " + token))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestGuard_TokenVersion(t *testing.T) {
	svc := newTestTokenService()
	user := testUser()

	t.Run("token minted before a password reset is retired", func(t *testing.T) {
		token, err := svc.Issue(auth.NewIdentityFromUser(user), auth.PurposeSession, 0)
		assert.NoError(t, err)

		rotated := *user
		rotated.TokenVersion = user.TokenVersion + 1

		users := &MockUsers{}
		users.On("GetByIdentifier", mock.Anything, user.ID.String()).Return(&rotated, nil)

		app := newGuardedApp(t, svc, users)

		res, err := app.Test(protectedRequest("Bearer " + token))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestGuard_Filter(t *testing.T) {
	svc := newTestTokenService()
	users := &MockUsers{}

	app := fiber.New()
	app.Use(auth.NewGuard(auth.GuardConfig{
		Tokens: svc,
		Users:  users,
		Filter: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestGuard_GuardRejectionEvents(t *testing.T) {
	svc := newTestTokenService()
	users := &MockUsers{}

	var events []auth.ActivityEvent
	app := fiber.New()
	app.Use(auth.NewGuard(auth.GuardConfig{
		Tokens: svc,
		Users:  users,
		Sink: auth.ActivitySinkFunc(func(ctx context.Context, event auth.ActivityEvent) error {
			events = append(events, event)
			return nil
		}),
	}))
	app.Get("/protected", func(c *fiber.Ctx) error { return c.SendString("ok") })

	res, err := app.Test(protectedRequest(""))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	assert.Len(t, events, 1)
	assert.Equal(t, auth.ActivityEventGuardRejection, events[0].EventType)
}
