package favorite_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/placora/backend/auth"
	"github.com/placora/backend/favorite"
	"github.com/placora/backend/place"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFavorites struct {
	mock.Mock
	repository.Repository[*favorite.Favorite]
}

func (m *MockFavorites) Get(ctx context.Context, id uuid.UUID) (*favorite.Favorite, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*favorite.Favorite)
	return record, args.Error(1)
}

func (m *MockFavorites) Add(ctx context.Context, record *favorite.Favorite) (*favorite.Favorite, error) {
	args := m.Called(ctx, record)
	created, _ := args.Get(0).(*favorite.Favorite)
	return created, args.Error(1)
}

func (m *MockFavorites) ListPlaces(ctx context.Context, userID uuid.UUID) ([]*place.Place, error) {
	args := m.Called(ctx, userID)
	records, _ := args.Get(0).([]*place.Place)
	return records, args.Error(1)
}

func (m *MockFavorites) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func fakeGuard(account *auth.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if account == nil {
			return auth.RespondError(c, auth.ErrUnauthenticated)
		}
		c.Locals("user", account)
		return c.Next()
	}
}

func newFavoriteApp(repo favorite.Favorites, account *auth.User) *fiber.App {
	app := fiber.New()
	favorite.RegisterRoutes(app, fakeGuard(account), repo)
	return app
}

func jsonRequest(method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestController_Add(t *testing.T) {
	account := &auth.User{ID: uuid.New(), Role: auth.RoleUser}
	placeID := uuid.New()

	t.Run("bookmark is stamped with the requester", func(t *testing.T) {
		repo := &MockFavorites{}
		repo.On("Add", mock.Anything, mock.MatchedBy(func(f *favorite.Favorite) bool {
			return f.UserID == account.ID && f.PlaceID == placeID
		})).Return(&favorite.Favorite{ID: uuid.New()}, nil)

		res, err := newFavoriteApp(repo, account).Test(jsonRequest(http.MethodPost, "/favorites", fiber.Map{
			"place_id": placeID.String(),
		}))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		repo.AssertExpectations(t)
	})

	t.Run("anonymous request is rejected", func(t *testing.T) {
		repo := &MockFavorites{}

		res, err := newFavoriteApp(repo, nil).Test(jsonRequest(http.MethodPost, "/favorites", fiber.Map{
			"place_id": placeID.String(),
		}))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestController_List(t *testing.T) {
	account := &auth.User{ID: uuid.New(), Role: auth.RoleUser}

	repo := &MockFavorites{}
	repo.On("ListPlaces", mock.Anything, account.ID).
		Return([]*place.Place{{ID: uuid.New(), Title: "Cafe Margo"}}, nil)

	res, err := newFavoriteApp(repo, account).Test(
		httptest.NewRequest(http.MethodGet, "/favorites", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	repo.AssertExpectations(t)
}

func TestController_Remove(t *testing.T) {
	owner := &auth.User{ID: uuid.New(), Role: auth.RoleUser}
	stranger := &auth.User{ID: uuid.New(), Role: auth.RoleUser}

	record := &favorite.Favorite{ID: uuid.New(), UserID: owner.ID, PlaceID: uuid.New()}

	removeReq := func() *http.Request {
		return httptest.NewRequest(http.MethodDelete, "/favorites/"+record.ID.String(), nil)
	}

	t.Run("owner may remove their bookmark", func(t *testing.T) {
		repo := &MockFavorites{}
		repo.On("Get", mock.Anything, record.ID).Return(record, nil)
		repo.On("Remove", mock.Anything, record.ID).Return(nil)

		res, err := newFavoriteApp(repo, owner).Test(removeReq())
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("someone else's bookmark is off limits", func(t *testing.T) {
		repo := &MockFavorites{}
		repo.On("Get", mock.Anything, record.ID).Return(record, nil)

		res, err := newFavoriteApp(repo, stranger).Test(removeReq())
		assert.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
		repo.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	})
}
