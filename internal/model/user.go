// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Accounts are identified by email address. The email is stored with its
// domain portion lowercased (the local part keeps its casing — RFC 5321
// says the local part MAY be case-sensitive, so we don't touch it).
//
// WHY PasswordHash AND NOT Password?
// We never store the plaintext password. The bcrypt hash is self-contained
// (salt and cost are embedded), so a single TEXT column is enough.
// The `json:"-"` tag ensures the hash can never leak into an API response.
//
// LastLogin is a *time.Time because a freshly registered user has never
// logged in — nil maps to SQL NULL, which is more honest than a zero time.
type User struct {
	ID           string     `json:"id"                  db:"id"`
	Email        string     `json:"email"               db:"email"`
	PasswordHash string     `json:"-"                   db:"password_hash"`
	Name         string     `json:"name"                db:"name"`
	IsActive     bool       `json:"isActive"            db:"is_active"`
	IsStaff      bool       `json:"isStaff"             db:"is_staff"`
	IsSuperuser  bool       `json:"isSuperuser"         db:"is_superuser"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"createdAt"           db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt"           db:"updated_at"`
}

// String returns the user's email, the human-readable identity of an account.
func (u User) String() string {
	return u.Email
}
