package place

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// WorkDays is the span of weekdays a place is open
type WorkDays struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// WorkHours is the daily opening window
type WorkHours struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Place is a listed location. New submissions start unconfirmed and stay
// hidden from confirmed-only listings until an admin reviews them.
type Place struct {
	bun.BaseModel `bun:"table:places,alias:plc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Types         []string   `bun:"types" json:"types,omitempty"`
	Tags          []string   `bun:"tags" json:"tags,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Address       string     `bun:"address,notnull" json:"address,omitempty"`
	Photos        []string   `bun:"photos" json:"photos,omitempty"`
	WorkDays      WorkDays   `bun:"work_days" json:"days_of_work,omitempty"`
	WorkHours     WorkHours  `bun:"work_hours" json:"hours_of_work,omitempty"`
	RestDays      []string   `bun:"rest_days" json:"rest_days,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	MapLink       string     `bun:"map_link" json:"map_link,omitempty"`
	IsConfirmed   bool       `bun:"is_confirmed,notnull,default:false" json:"is_confirmed"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// OwnerID satisfies the ownership policy contract
func (p *Place) OwnerID() uuid.UUID {
	return p.UserID
}
