package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/recipebox/internal/apperror"
	"github.com/sakif/recipebox/internal/model"
	"github.com/sakif/recipebox/internal/repository"
)

var _ repository.TagRepository = (*DB)(nil)

// CreateTag inserts a new tag owned by tag.UserID.
func (db *DB) CreateTag(ctx context.Context, tag *model.Tag) error {
	tag.ID = xid.New().String()

	now := time.Now()
	tag.CreatedAt = now
	tag.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tags (id, user_id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		tag.ID, tag.UserID, tag.Name, tag.CreatedAt, tag.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating tag: %w", err)
	}

	return nil
}

// GetTag retrieves a tag owned by userID. Someone else's tag is NotFound.
func (db *DB) GetTag(ctx context.Context, userID, id string) (*model.Tag, error) {
	var t model.Tag

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM tags WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("tag", id)
		}
		return nil, fmt.Errorf("sqlite: getting tag %s: %w", id, err)
	}

	return &t, nil
}

// GetTagByName retrieves the caller's tag with the exact given name.
// Names aren't unique; if duplicates exist the oldest wins, which keeps
// get-or-create deterministic.
func (db *DB) GetTagByName(ctx context.Context, userID, name string) (*model.Tag, error) {
	var t model.Tag

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM tags WHERE user_id = ? AND name = ?
		 ORDER BY created_at, id LIMIT 1`,
		userID, name,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("tag", name)
		}
		return nil, fmt.Errorf("sqlite: getting tag by name %q: %w", name, err)
	}

	return &t, nil
}

// ListTags returns the caller's tags, name-descending (the listing order the
// API documents). With filter.AssignedOnly set, only tags referenced by at
// least one of the caller's recipes are returned — DISTINCT collapses a tag
// used by several recipes into one row.
func (db *DB) ListTags(ctx context.Context, userID string, filter repository.CatalogFilter) ([]model.Tag, error) {
	query := `SELECT id, user_id, name, created_at, updated_at
	          FROM tags WHERE user_id = ?
	          ORDER BY name DESC, id`
	if filter.AssignedOnly {
		query = `SELECT DISTINCT t.id, t.user_id, t.name, t.created_at, t.updated_at
		         FROM tags t
		         JOIN recipe_tags rt ON rt.tag_id = t.id
		         WHERE t.user_id = ?
		         ORDER BY t.name DESC, t.id`
	}

	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tags: %w", err)
	}

	return tags, nil
}

// UpdateTag renames a tag, scoped by (id, user_id).
func (db *DB) UpdateTag(ctx context.Context, tag *model.Tag) error {
	tag.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE tags SET name = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		tag.Name, tag.UpdatedAt, tag.ID, tag.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating tag %s: %w", tag.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("tag", tag.ID)
	}

	return nil
}

// DeleteTag removes a tag owned by userID; recipe links cascade away.
func (db *DB) DeleteTag(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting tag %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("tag", id)
	}

	return nil
}
