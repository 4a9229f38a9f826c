package review

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	TextCodeReviewNotFound = "REVIEW_NOT_FOUND"
)

// ErrReviewNotFound is returned when an id does not resolve to a review
var ErrReviewNotFound = errors.New("review not found", errors.CategoryNotFound).
	WithTextCode(TextCodeReviewNotFound).
	WithCode(errors.CodeNotFound)

// Reviews is the review store
type Reviews interface {
	Get(ctx context.Context, id uuid.UUID) (*Review, error)
	ListByPlace(ctx context.Context, placeID uuid.UUID) ([]*Review, error)
	Add(ctx context.Context, review *Review) (*Review, error)
	Update(ctx context.Context, review *Review) (*Review, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type reviews struct {
	repository.Repository[*Review]
	db *bun.DB
}

var _ Reviews = (*reviews)(nil)

// NewRepository builds the review store on top of the generic bun-backed
// repository.
func NewRepository(db *bun.DB) Reviews {
	repo := repository.NewRepository[*Review](db, repository.ModelHandlers[*Review]{
		NewRecord: func() *Review { return &Review{} },
		GetID: func(r *Review) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Review, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &reviews{
		Repository: repo,
		db:         db,
	}
}

func (r *reviews) Get(ctx context.Context, id uuid.UUID) (*Review, error) {
	record := &Review{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *reviews) ListByPlace(ctx context.Context, placeID uuid.UUID) ([]*Review, error) {
	var records []*Review
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.place_id = ?", placeID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *reviews) Add(ctx context.Context, review *Review) (*Review, error) {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return r.Repository.CreateTx(ctx, r.db, review)
}

func (r *reviews) Update(ctx context.Context, review *Review) (*Review, error) {
	_, err := r.db.NewUpdate().
		Model(review).
		Column("rating", "comment").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *reviews) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Review)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	return err
}
