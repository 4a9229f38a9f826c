package favorite

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/placora/backend/place"
	"github.com/uptrace/bun"
)

const (
	TextCodeFavoriteNotFound = "FAVORITE_NOT_FOUND"
)

// ErrFavoriteNotFound is returned when an id does not resolve to a favorite
var ErrFavoriteNotFound = errors.New("favorite not found", errors.CategoryNotFound).
	WithTextCode(TextCodeFavoriteNotFound).
	WithCode(errors.CodeNotFound)

// Favorites is the bookmark store
type Favorites interface {
	repository.Repository[*Favorite]

	Get(ctx context.Context, id uuid.UUID) (*Favorite, error)
	Add(ctx context.Context, favorite *Favorite) (*Favorite, error)
	ListPlaces(ctx context.Context, userID uuid.UUID) ([]*place.Place, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type favorites struct {
	repository.Repository[*Favorite]
	db *bun.DB
}

var _ Favorites = (*favorites)(nil)

// NewRepository builds the bookmark store on top of the generic bun-backed
// repository.
func NewRepository(db *bun.DB) Favorites {
	repo := repository.NewRepository[*Favorite](db, repository.ModelHandlers[*Favorite]{
		NewRecord: func() *Favorite { return &Favorite{} },
		GetID: func(f *Favorite) uuid.UUID {
			if f == nil {
				return uuid.Nil
			}
			return f.ID
		},
		SetID: func(f *Favorite, id uuid.UUID) {
			if f != nil {
				f.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &favorites{
		Repository: repo,
		db:         db,
	}
}

func (r *favorites) Get(ctx context.Context, id uuid.UUID) (*Favorite, error) {
	record := &Favorite{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *favorites) Add(ctx context.Context, favorite *Favorite) (*Favorite, error) {
	if favorite.ID == uuid.Nil {
		favorite.ID = uuid.New()
	}
	return r.Repository.CreateTx(ctx, r.db, favorite)
}

// ListPlaces resolves an account's bookmarks to the places behind them in a
// single join instead of the original's per-favorite lookup.
func (r *favorites) ListPlaces(ctx context.Context, userID uuid.UUID) ([]*place.Place, error) {
	var records []*place.Place
	err := r.db.NewSelect().
		Model(&records).
		Join(`JOIN "favorites" AS "fav" ON "fav"."place_id" = ?TableAlias."id"`).
		Where(`"fav"."user_id" = ?`, userID).
		Where(`"fav"."deleted_at" IS NULL`).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *favorites) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Favorite)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	return err
}
