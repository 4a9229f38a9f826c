package favorite

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Favorite bookmarks a place for an account
type Favorite struct {
	bun.BaseModel `bun:"table:favorites,alias:fav"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	PlaceID       uuid.UUID  `bun:"place_id,notnull,type:uuid" json:"place_id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// OwnerID satisfies the ownership policy contract
func (f *Favorite) OwnerID() uuid.UUID {
	return f.UserID
}
