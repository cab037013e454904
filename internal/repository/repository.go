// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation;
// tests substitute hand-written in-memory mocks.
//
// OWNERSHIP SCOPING:
// Every read or write of a Tag, Ingredient or Recipe takes the owning
// userID alongside the entity id. Implementations fold that userID into the
// query itself, so a row owned by a different user is indistinguishable
// from a row that doesn't exist — both come back as apperror.ErrNotFound.
package repository

import (
	"context"
	"time"

	"github.com/sakif/recipebox/internal/model"
)

// ListOptions carries limit/offset pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// CatalogFilter narrows tag/ingredient listings.
// AssignedOnly restricts the result to entries referenced by at least one
// of the owner's recipes, deduplicated.
type CatalogFilter struct {
	AssignedOnly bool
}

// UserRepository stores accounts. Users are the one entity not owner-scoped
// — they are the owners.
type UserRepository interface {
	// CreateUser inserts a new account. Returns apperror.ErrConflict if the
	// (normalized) email is already registered.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByEmail looks up by the stored (normalized) email.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	// TouchLastLogin records a successful login without rewriting the row.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	// ListUsers returns accounts for the admin surface, optionally filtered
	// by a substring match over email and name.
	ListUsers(ctx context.Context, query string, opts ListOptions) ([]model.User, error)
}

// RecipeRepository stores recipes and their tag/ingredient links.
// Create and Update persist the link rows from recipe.Tags and
// recipe.Ingredients; Get and List load them back.
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	GetRecipe(ctx context.Context, userID, id string) (*model.Recipe, error)
	ListRecipes(ctx context.Context, userID string, opts ListOptions) ([]model.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *model.Recipe) error
	DeleteRecipe(ctx context.Context, userID, id string) error
	// UpdateRecipeImage stores the image path and blurhash for a recipe.
	UpdateRecipeImage(ctx context.Context, userID, id, imagePath, blurHash string) error
}

// TagRepository stores tags.
type TagRepository interface {
	CreateTag(ctx context.Context, tag *model.Tag) error
	GetTag(ctx context.Context, userID, id string) (*model.Tag, error)
	// GetTagByName supports get-or-create; returns ErrNotFound when absent.
	GetTagByName(ctx context.Context, userID, name string) (*model.Tag, error)
	ListTags(ctx context.Context, userID string, filter CatalogFilter) ([]model.Tag, error)
	UpdateTag(ctx context.Context, tag *model.Tag) error
	DeleteTag(ctx context.Context, userID, id string) error
}

// IngredientRepository stores ingredients.
type IngredientRepository interface {
	CreateIngredient(ctx context.Context, ingredient *model.Ingredient) error
	GetIngredient(ctx context.Context, userID, id string) (*model.Ingredient, error)
	GetIngredientByName(ctx context.Context, userID, name string) (*model.Ingredient, error)
	ListIngredients(ctx context.Context, userID string, filter CatalogFilter) ([]model.Ingredient, error)
	UpdateIngredient(ctx context.Context, ingredient *model.Ingredient) error
	DeleteIngredient(ctx context.Context, userID, id string) error
}

// StatsRepository reports row counts per entity for the admin dashboard.
type StatsRepository interface {
	EntityCounts(ctx context.Context) (map[string]int64, error)
}
