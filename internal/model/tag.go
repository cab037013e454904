package model

import "time"

// Tag is a user-defined label attached to recipes ("vegan", "dessert", ...).
//
// Names are free text and deliberately NOT unique, even within one user's
// account — deduplication happens at creation time in the service layer
// (get-or-create by name), not as a database constraint.
type Tag struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"-"         db:"user_id"`
	Name      string    `json:"name"      db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// String returns the tag's name.
func (t Tag) String() string {
	return t.Name
}
