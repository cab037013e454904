package model

import "time"

// Ingredient is a user-owned ingredient that recipes reference ("salt",
// "basil", ...). Same ownership and naming rules as Tag.
type Ingredient struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"-"         db:"user_id"`
	Name      string    `json:"name"      db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// String returns the ingredient's name.
func (i Ingredient) String() string {
	return i.Name
}
