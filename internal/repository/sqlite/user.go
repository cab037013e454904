package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/recipebox/internal/apperror"
	"github.com/sakif/recipebox/internal/model"
	"github.com/sakif/recipebox/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, email, password_hash, name, is_active, is_staff,
	is_superuser, last_login, created_at, updated_at`

// CreateUser inserts a new account.
//
// Uniqueness is enforced by the UNIQUE COLLATE NOCASE constraint on the
// email column — the constraint violation is translated into
// apperror.ErrConflict rather than leaking a driver error string upward.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, is_active, is_staff,
		                    is_superuser, last_login, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
		user.LastLogin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by email. The NOCASE collation on the
// column makes the lookup case-insensitive, matching registration.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, "email = ?", email)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u         model.User
		lastLogin sql.NullTime
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.IsActive,
		&u.IsStaff,
		&u.IsSuperuser,
		&lastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}

	return &u, nil
}

// UpdateUser rewrites the mutable columns of an account.
// Email is included — admin staff may correct an address — and keeps the
// same conflict translation as CreateUser.
func (db *DB) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET email = ?, password_hash = ?, name = ?, is_active = ?,
		     is_staff = ?, is_superuser = ?, updated_at = ?
		 WHERE id = ?`,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// TouchLastLogin records a successful login timestamp.
func (db *DB) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, at, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: touching last_login for %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}

// ListUsers returns accounts ordered by id, optionally filtered by a
// substring match over email and name. Powers the admin user list.
func (db *DB) ListUsers(ctx context.Context, query string, opts repository.ListOptions) ([]model.User, error) {
	limit, offset := clampListOptions(opts)

	where := ""
	args := []any{}
	if q := strings.TrimSpace(query); q != "" {
		where = `WHERE email LIKE ? OR name LIKE ?`
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern)
	}
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users `+where+`
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		var (
			u         model.User
			lastLogin sql.NullTime
		)
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.IsActive,
			&u.IsStaff, &u.IsSuperuser, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		if lastLogin.Valid {
			u.LastLogin = &lastLogin.Time
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
// modernc.org/sqlite doesn't export a typed error for this, so we match the
// canonical message prefix SQLite itself produces.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// clampListOptions applies the shared pagination defaults: page size 20,
// hard cap 100, offset never negative.
func clampListOptions(opts repository.ListOptions) (limit, offset int) {
	limit = opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset = opts.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
