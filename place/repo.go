package place

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var confirmPlaceSQL = `UPDATE "places" AS "plc"
SET
	"is_confirmed" = TRUE
WHERE
	"plc"."deleted_at" IS NULL
AND (
	"plc"."id" = ?
) RETURNING *;`

// Places is the listing store
type Places interface {
	Get(ctx context.Context, id uuid.UUID) (*Place, error)
	List(ctx context.Context) ([]*Place, error)
	ListByStatus(ctx context.Context, confirmed bool) ([]*Place, error)
	Search(ctx context.Context, keyword string) ([]*Place, error)
	FilterByTypes(ctx context.Context, types []string) ([]*Place, error)
	Submit(ctx context.Context, place *Place) (*Place, error)
	Update(ctx context.Context, place *Place) (*Place, error)
	Confirm(ctx context.Context, id uuid.UUID) (*Place, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type places struct {
	repository.Repository[*Place]
	db *bun.DB
}

var _ Places = (*places)(nil)

// NewRepository builds the place store on top of the generic bun-backed
// repository.
func NewRepository(db *bun.DB) Places {
	repo := repository.NewRepository[*Place](db, repository.ModelHandlers[*Place]{
		NewRecord: func() *Place { return &Place{} },
		GetID: func(p *Place) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Place, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &places{
		Repository: repo,
		db:         db,
	}
}

func (r *places) Get(ctx context.Context, id uuid.UUID) (*Place, error) {
	record := &Place{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrPlaceNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *places) List(ctx context.Context) ([]*Place, error) {
	var records []*Place
	if err := r.db.NewSelect().Model(&records).Order("created_at DESC").Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *places) ListByStatus(ctx context.Context, confirmed bool) ([]*Place, error) {
	var records []*Place
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.is_confirmed = ?", confirmed).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Search matches the keyword against title, types, tags, description, and
// address, case-insensitively. Types and tags are stored as JSON text, a
// substring match over that text mirrors the original behavior.
func (r *places) Search(ctx context.Context, keyword string) ([]*Place, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return r.List(ctx)
	}

	pattern := "%" + strings.ToLower(keyword) + "%"

	var records []*Place
	err := r.db.NewSelect().
		Model(&records).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("lower(?TableAlias.title) LIKE ?", pattern).
				WhereOr("lower(?TableAlias.types) LIKE ?", pattern).
				WhereOr("lower(?TableAlias.tags) LIKE ?", pattern).
				WhereOr("lower(?TableAlias.description) LIKE ?", pattern).
				WhereOr("lower(?TableAlias.address) LIKE ?", pattern)
		}).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *places) FilterByTypes(ctx context.Context, types []string) ([]*Place, error) {
	if len(types) == 0 {
		return []*Place{}, nil
	}

	var records []*Place
	err := r.db.NewSelect().
		Model(&records).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, t := range types {
				pattern := "%" + strings.ToLower(strings.TrimSpace(t)) + "%"
				q = q.WhereOr("lower(?TableAlias.types) LIKE ?", pattern)
			}
			return q
		}).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Submit persists a new listing. Submissions always start unconfirmed no
// matter what the payload claims.
func (r *places) Submit(ctx context.Context, place *Place) (*Place, error) {
	if place.ID == uuid.Nil {
		place.ID = uuid.New()
	}
	place.IsConfirmed = false

	return r.Repository.CreateTx(ctx, r.db, place)
}

func (r *places) Update(ctx context.Context, place *Place) (*Place, error) {
	_, err := r.db.NewUpdate().
		Model(place).
		Column("title", "types", "tags", "description", "address", "photos",
			"work_days", "work_hours", "rest_days", "phone_number", "map_link").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return place, nil
}

func (r *places) Confirm(ctx context.Context, id uuid.UUID) (*Place, error) {
	res, err := r.Repository.RawTx(ctx, r.db, confirmPlaceSQL, id.String())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, ErrPlaceNotFound
	}

	return res[0], nil
}

func (r *places) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Place)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	return err
}
