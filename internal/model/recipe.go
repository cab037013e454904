package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe represents a recipe owned by a single user.
//
// OWNERSHIP:
// UserID is set once at creation and never changes. Every query that touches
// recipes filters on it — a recipe is invisible to everyone but its owner.
// The field is excluded from JSON (`json:"-"`) because API responses are
// always already scoped to the caller; echoing the owner adds nothing.
//
// WHY decimal.Decimal FOR Price?
// Money must not be a float64. 0.1 + 0.2 != 0.3 in binary floating point,
// and rounding drift compounds. shopspring/decimal gives exact base-10
// arithmetic and round-trips cleanly through a TEXT column.
type Recipe struct {
	ID            string          `json:"id"                      db:"id"`
	UserID        string          `json:"-"                       db:"user_id"`
	Title         string          `json:"title"                   db:"title"`
	TimeMinutes   int             `json:"timeMinutes"             db:"time_minutes"`
	Price         decimal.Decimal `json:"price"                   db:"price"`
	Description   string          `json:"description"             db:"description"`
	Link          string          `json:"link"                    db:"link"`
	ImagePath     string          `json:"image,omitempty"         db:"image_path"`
	ImageBlurHash string          `json:"imageBlurHash,omitempty" db:"image_blur_hash"`
	Tags          []Tag           `json:"tags"`
	Ingredients   []Ingredient    `json:"ingredients"`
	CreatedAt     time.Time       `json:"createdAt"               db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt"               db:"updated_at"`
}

// String returns the recipe's title.
func (r Recipe) String() string {
	return r.Title
}
