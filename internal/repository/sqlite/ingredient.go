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

var _ repository.IngredientRepository = (*DB)(nil)

// CreateIngredient inserts a new ingredient owned by ingredient.UserID.
func (db *DB) CreateIngredient(ctx context.Context, ingredient *model.Ingredient) error {
	ingredient.ID = xid.New().String()

	now := time.Now()
	ingredient.CreatedAt = now
	ingredient.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO ingredients (id, user_id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ingredient.ID, ingredient.UserID, ingredient.Name,
		ingredient.CreatedAt, ingredient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating ingredient: %w", err)
	}

	return nil
}

// GetIngredient retrieves an ingredient owned by userID.
func (db *DB) GetIngredient(ctx context.Context, userID, id string) (*model.Ingredient, error) {
	var i model.Ingredient

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM ingredients WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&i.ID, &i.UserID, &i.Name, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("ingredient", id)
		}
		return nil, fmt.Errorf("sqlite: getting ingredient %s: %w", id, err)
	}

	return &i, nil
}

// GetIngredientByName retrieves the caller's ingredient with the exact given
// name, oldest first for deterministic get-or-create.
func (db *DB) GetIngredientByName(ctx context.Context, userID, name string) (*model.Ingredient, error) {
	var i model.Ingredient

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM ingredients WHERE user_id = ? AND name = ?
		 ORDER BY created_at, id LIMIT 1`,
		userID, name,
	).Scan(&i.ID, &i.UserID, &i.Name, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("ingredient", name)
		}
		return nil, fmt.Errorf("sqlite: getting ingredient by name %q: %w", name, err)
	}

	return &i, nil
}

// ListIngredients mirrors ListTags: name-descending, with AssignedOnly
// restricting to ingredients referenced by ≥1 of the caller's recipes.
func (db *DB) ListIngredients(ctx context.Context, userID string, filter repository.CatalogFilter) ([]model.Ingredient, error) {
	query := `SELECT id, user_id, name, created_at, updated_at
	          FROM ingredients WHERE user_id = ?
	          ORDER BY name DESC, id`
	if filter.AssignedOnly {
		query = `SELECT DISTINCT i.id, i.user_id, i.name, i.created_at, i.updated_at
		         FROM ingredients i
		         JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
		         WHERE i.user_id = ?
		         ORDER BY i.name DESC, i.id`
	}

	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []model.Ingredient{}
	for rows.Next() {
		var i model.Ingredient
		if err := rows.Scan(&i.ID, &i.UserID, &i.Name, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning ingredient row: %w", err)
		}
		ingredients = append(ingredients, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating ingredients: %w", err)
	}

	return ingredients, nil
}

// UpdateIngredient renames an ingredient, scoped by (id, user_id).
func (db *DB) UpdateIngredient(ctx context.Context, ingredient *model.Ingredient) error {
	ingredient.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE ingredients SET name = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		ingredient.Name, ingredient.UpdatedAt, ingredient.ID, ingredient.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating ingredient %s: %w", ingredient.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("ingredient", ingredient.ID)
	}

	return nil
}

// DeleteIngredient removes an ingredient owned by userID.
func (db *DB) DeleteIngredient(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM ingredients WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting ingredient %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("ingredient", id)
	}

	return nil
}
