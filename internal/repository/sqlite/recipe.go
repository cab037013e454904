package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"
	"github.com/sakif/recipebox/internal/apperror"
	"github.com/sakif/recipebox/internal/model"
	"github.com/sakif/recipebox/internal/repository"
)

var _ repository.RecipeRepository = (*DB)(nil)

const recipeColumns = `id, user_id, title, time_minutes, price, description,
	link, image_path, image_blur_hash, created_at, updated_at`

// CreateRecipe inserts a recipe row plus its tag/ingredient link rows in a
// single transaction — a recipe never becomes visible with half its links.
//
// The caller (service layer) has already resolved recipe.Tags and
// recipe.Ingredients to rows owned by the same user; this method just
// persists the references.
func (db *DB) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	recipe.ID = xid.New().String()

	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	// Rollback after Commit is a no-op, so the defer is safe on both paths.
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recipes (id, user_id, title, time_minutes, price,
		                      description, link, image_path, image_blur_hash,
		                      created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID,
		recipe.UserID,
		recipe.Title,
		recipe.TimeMinutes,
		recipe.Price.String(),
		recipe.Description,
		recipe.Link,
		recipe.ImagePath,
		recipe.ImageBlurHash,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating recipe: %w", err)
	}

	if err := insertRecipeLinks(ctx, tx, recipe); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing recipe create: %w", err)
	}

	return nil
}

// GetRecipe retrieves a single recipe owned by userID, with its tags and
// ingredients loaded. A recipe owned by anyone else is NotFound — the
// user_id predicate makes foreign rows scan as zero rows.
func (db *DB) GetRecipe(ctx context.Context, userID, id string) (*model.Recipe, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	recipe, err := scanRecipe(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("recipe", id)
		}
		return nil, fmt.Errorf("sqlite: getting recipe %s: %w", id, err)
	}

	if err := db.loadRecipeRelations(ctx, recipe); err != nil {
		return nil, err
	}

	return recipe, nil
}

// ListRecipes returns the caller's recipes, newest first.
func (db *DB) ListRecipes(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Recipe, error) {
	limit, offset := clampListOptions(opts)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]model.Recipe, 0, limit)
	for rows.Next() {
		recipe, err := scanRecipe(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning recipe row: %w", err)
		}
		recipes = append(recipes, *recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating recipes: %w", err)
	}

	for i := range recipes {
		if err := db.loadRecipeRelations(ctx, &recipes[i]); err != nil {
			return nil, err
		}
	}

	return recipes, nil
}

// UpdateRecipe rewrites a recipe's fields and replaces its links.
// Scoped by (id, user_id): zero affected rows means NotFound, whether the
// recipe is absent or owned by someone else.
func (db *DB) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	recipe.UpdatedAt = time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE recipes
		 SET title = ?, time_minutes = ?, price = ?, description = ?,
		     link = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		recipe.Title,
		recipe.TimeMinutes,
		recipe.Price.String(),
		recipe.Description,
		recipe.Link,
		recipe.UpdatedAt,
		recipe.ID,
		recipe.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating recipe %s: %w", recipe.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("recipe", recipe.ID)
	}

	// Replace the link sets wholesale — simpler and no slower than diffing
	// at recipe scale (a handful of links per recipe).
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recipe_tags WHERE recipe_id = ?`, recipe.ID); err != nil {
		return fmt.Errorf("sqlite: clearing recipe tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recipe_ingredients WHERE recipe_id = ?`, recipe.ID); err != nil {
		return fmt.Errorf("sqlite: clearing recipe ingredients: %w", err)
	}
	if err := insertRecipeLinks(ctx, tx, recipe); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing recipe update: %w", err)
	}

	return nil
}

// DeleteRecipe removes a recipe owned by userID. The link rows go with it
// via ON DELETE CASCADE.
func (db *DB) DeleteRecipe(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting recipe %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("recipe", id)
	}

	return nil
}

// UpdateRecipeImage stores the uploaded image's path and blurhash.
func (db *DB) UpdateRecipeImage(ctx context.Context, userID, id, imagePath, blurHash string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE recipes
		 SET image_path = ?, image_blur_hash = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		imagePath, blurHash, time.Now(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating recipe image %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("recipe", id)
	}

	return nil
}

// scanRecipe reads one recipe row. It takes the Scan function rather than a
// concrete row type so it works for both QueryRow and Rows.
func scanRecipe(scan func(dest ...any) error) (*model.Recipe, error) {
	var (
		r        model.Recipe
		priceStr string
	)

	err := scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.TimeMinutes,
		&priceStr,
		&r.Description,
		&r.Link,
		&r.ImagePath,
		&r.ImageBlurHash,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("parsing stored price %q: %w", priceStr, err)
	}
	r.Price = price

	return &r, nil
}

// loadRecipeRelations fills in recipe.Tags and recipe.Ingredients.
func (db *DB) loadRecipeRelations(ctx context.Context, recipe *model.Recipe) error {
	tags, err := db.recipeTags(ctx, recipe.ID)
	if err != nil {
		return err
	}
	recipe.Tags = tags

	ingredients, err := db.recipeIngredients(ctx, recipe.ID)
	if err != nil {
		return err
	}
	recipe.Ingredients = ingredients

	return nil
}

func (db *DB) recipeTags(ctx context.Context, recipeID string) ([]model.Tag, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT t.id, t.user_id, t.name, t.created_at, t.updated_at
		 FROM tags t
		 JOIN recipe_tags rt ON rt.tag_id = t.id
		 WHERE rt.recipe_id = ?
		 ORDER BY t.name`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading recipe tags: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning recipe tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (db *DB) recipeIngredients(ctx context.Context, recipeID string) ([]model.Ingredient, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT i.id, i.user_id, i.name, i.created_at, i.updated_at
		 FROM ingredients i
		 JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
		 WHERE ri.recipe_id = ?
		 ORDER BY i.name`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading recipe ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []model.Ingredient{}
	for rows.Next() {
		var i model.Ingredient
		if err := rows.Scan(&i.ID, &i.UserID, &i.Name, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning recipe ingredient: %w", err)
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

// insertRecipeLinks writes the link rows for recipe.Tags and
// recipe.Ingredients inside the caller's transaction. INSERT OR IGNORE
// tolerates the same reference appearing twice in the input.
func insertRecipeLinks(ctx context.Context, tx *sql.Tx, recipe *model.Recipe) error {
	for _, tag := range recipe.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`,
			recipe.ID, tag.ID,
		); err != nil {
			return fmt.Errorf("sqlite: linking tag %s: %w", tag.ID, err)
		}
	}

	for _, ingredient := range recipe.Ingredients {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO recipe_ingredients (recipe_id, ingredient_id) VALUES (?, ?)`,
			recipe.ID, ingredient.ID,
		); err != nil {
			return fmt.Errorf("sqlite: linking ingredient %s: %w", ingredient.ID, err)
		}
	}

	return nil
}
