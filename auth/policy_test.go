package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/placora/backend/auth"
	"github.com/stretchr/testify/assert"
)

type ownedRecord struct {
	owner uuid.UUID
}

func (r ownedRecord) OwnerID() uuid.UUID { return r.owner }

func TestAuthorize(t *testing.T) {
	owner := &auth.User{ID: uuid.New(), Role: auth.RoleUser}
	stranger := &auth.User{ID: uuid.New(), Role: auth.RoleUser}
	admin := &auth.User{ID: uuid.New(), Role: auth.RoleAdmin}

	t.Run("owner may act on own record", func(t *testing.T) {
		assert.NoError(t, auth.Authorize(owner, owner.ID))
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		err := auth.Authorize(stranger, owner.ID)
		assert.Error(t, err)
		assert.True(t, auth.HasTextCode(err, auth.TextCodeForbidden))
	})

	t.Run("admin may act on anyone's record", func(t *testing.T) {
		assert.NoError(t, auth.Authorize(admin, owner.ID))
	})

	t.Run("nil account is unauthenticated, not forbidden", func(t *testing.T) {
		err := auth.Authorize(nil, owner.ID)
		assert.Error(t, err)
		assert.True(t, auth.HasTextCode(err, auth.TextCodeUnauthenticated))
	})
}

func TestAuthorizeResource(t *testing.T) {
	owner := &auth.User{ID: uuid.New(), Role: auth.RoleUser}

	t.Run("delegates to the ownership check", func(t *testing.T) {
		assert.NoError(t, auth.AuthorizeResource(owner, ownedRecord{owner: owner.ID}))

		err := auth.AuthorizeResource(owner, ownedRecord{owner: uuid.New()})
		assert.True(t, auth.HasTextCode(err, auth.TextCodeForbidden))
	})

	t.Run("nil resource is forbidden", func(t *testing.T) {
		err := auth.AuthorizeResource(owner, nil)
		assert.True(t, auth.HasTextCode(err, auth.TextCodeForbidden))
	})
}

func TestAuthorizeAdmin(t *testing.T) {
	admin := &auth.User{ID: uuid.New(), Role: auth.RoleAdmin}
	user := &auth.User{ID: uuid.New(), Role: auth.RoleUser}

	assert.NoError(t, auth.AuthorizeAdmin(admin))

	err := auth.AuthorizeAdmin(user)
	assert.True(t, auth.HasTextCode(err, auth.TextCodeForbidden))

	err = auth.AuthorizeAdmin(nil)
	assert.True(t, auth.HasTextCode(err, auth.TextCodeUnauthenticated))
}
