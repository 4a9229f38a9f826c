package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Review is a rating left on a place by an account
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:rev"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	PlaceID       uuid.UUID  `bun:"place_id,notnull,type:uuid" json:"place_id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Rating        int        `bun:"rating,notnull" json:"rating"`
	Comment       string     `bun:"comment" json:"comment,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// OwnerID satisfies the ownership policy contract
func (r *Review) OwnerID() uuid.UUID {
	return r.UserID
}
