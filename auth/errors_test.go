package auth_test

import (
	stderrors "errors"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/placora/backend/auth"
	"github.com/stretchr/testify/assert"
)

func TestHasTextCode(t *testing.T) {
	assert.True(t, auth.HasTextCode(auth.ErrDuplicateEmail, auth.TextCodeDuplicateEmail))
	assert.False(t, auth.HasTextCode(auth.ErrDuplicateEmail, auth.TextCodeForbidden))
	assert.False(t, auth.HasTextCode(nil, auth.TextCodeForbidden))
	assert.False(t, auth.HasTextCode(stderrors.New("plain"), auth.TextCodeForbidden))
}

func TestHasTextCode_Wrapped(t *testing.T) {
	wrapped := errors.Wrap(auth.ErrTokenExpired, errors.CategoryAuth, "activation failed").
		WithTextCode(auth.TextCodeTokenExpired)
	assert.True(t, auth.IsTokenExpired(wrapped))
}

func TestIsDuplicateEmail(t *testing.T) {
	t.Run("matches the taxonomy code", func(t *testing.T) {
		assert.True(t, auth.IsDuplicateEmail(auth.ErrDuplicateEmail))
	})

	t.Run("matches store level unique violations", func(t *testing.T) {
		assert.True(t, auth.IsDuplicateEmail(stderrors.New("UNIQUE constraint failed: users.email")))
		assert.True(t, auth.IsDuplicateEmail(stderrors.New(`duplicate key value violates unique constraint "users_email_key"`)))
	})

	t.Run("ignores unrelated errors", func(t *testing.T) {
		assert.False(t, auth.IsDuplicateEmail(nil))
		assert.False(t, auth.IsDuplicateEmail(stderrors.New("connection refused")))
	})
}

func TestErrorTaxonomyCodes(t *testing.T) {
	tests := []struct {
		err  *errors.Error
		code int
	}{
		{auth.ErrDuplicateEmail, 409},
		{auth.ErrAccountNotFound, 404},
		{auth.ErrAlreadyActive, 409},
		{auth.ErrInvalidCredentials, 401},
		{auth.ErrNotActivated, 401},
		{auth.ErrTokenExpired, 401},
		{auth.ErrTokenInvalid, 401},
		{auth.ErrUnauthenticated, 401},
		{auth.ErrForbidden, 403},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code, tt.err.Message)
	}
}
