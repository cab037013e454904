package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sakif/recipebox/internal/apperror"
	"github.com/sakif/recipebox/internal/model"
	"github.com/sakif/recipebox/internal/repository"
)

const (
	MaxTitleLength       = 255
	MaxLinkLength        = 255
	MaxDescriptionLength = 10000
	DefaultListLimit     = 20
	MaxListLimit         = 100
)

// EntityRef names a tag or ingredient in a recipe payload: either the ID of
// an existing entry, or a bare name to get-or-create. Exactly one is set.
type EntityRef struct {
	ID   string
	Name string
}

// RecipeParams carries the full field set for creating a recipe.
type RecipeParams struct {
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Description string
	Link        string
	Tags        []EntityRef
	Ingredients []EntityRef
}

// RecipePatch carries a partial update. Nil means "leave unchanged", which
// lets a single Update method serve both PATCH (sparse) and PUT (every field
// set by the handler).
type RecipePatch struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	Tags        *[]EntityRef
	Ingredients *[]EntityRef
}

// RecipeService handles business logic for recipes, including resolution of
// tag/ingredient references to rows the caller actually owns.
type RecipeService struct {
	recipes     repository.RecipeRepository
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	logger      *slog.Logger
}

// NewRecipeService creates a RecipeService.
func NewRecipeService(
	recipes repository.RecipeRepository,
	tags repository.TagRepository,
	ingredients repository.IngredientRepository,
	logger *slog.Logger,
) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		logger:      logger,
	}
}

// Create validates and saves a new recipe for userID.
//
// Tag and ingredient references are resolved within the caller's own scope:
// an ID the caller doesn't own comes back NotFound from the repository —
// deliberately the same answer as an ID that doesn't exist at all — and a
// name is matched against the caller's entries or created fresh under the
// caller's ownership. A recipe can therefore never link to another user's
// rows.
func (s *RecipeService) Create(ctx context.Context, userID string, p RecipeParams) (*model.Recipe, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("user", "user is required")
	}
	if err := validateRecipeFields(p.Title, p.TimeMinutes, p.Price, p.Description, p.Link); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, userID, p.Tags)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.resolveIngredients(ctx, userID, p.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		UserID:      userID,
		Title:       strings.TrimSpace(p.Title),
		TimeMinutes: p.TimeMinutes,
		Price:       p.Price,
		Description: p.Description,
		Link:        strings.TrimSpace(p.Link),
		Tags:        tags,
		Ingredients: ingredients,
	}

	if err := s.recipes.CreateRecipe(ctx, recipe); err != nil {
		s.logger.Error("failed to create recipe",
			slog.String("title", recipe.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating recipe: %w", err)
	}

	s.logger.Info("recipe created",
		slog.String("id", recipe.ID),
		slog.String("title", recipe.Title),
	)

	return recipe, nil
}

// Get retrieves one of the caller's recipes.
func (s *RecipeService) Get(ctx context.Context, userID, id string) (*model.Recipe, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "recipe ID is required")
	}
	return s.recipes.GetRecipe(ctx, userID, id)
}

// List retrieves the caller's recipes with pagination, newest first.
func (s *RecipeService) List(ctx context.Context, userID string, limit, offset int) ([]model.Recipe, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	recipes, err := s.recipes.ListRecipes(ctx, userID, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list recipes", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing recipes: %w", err)
	}

	return recipes, nil
}

// Update applies a patch to one of the caller's recipes and returns the
// updated record. Fetch-then-update: the ownership check and the NotFound
// for foreign rows both fall out of the scoped Get.
func (s *RecipeService) Update(ctx context.Context, userID, id string, p RecipePatch) (*model.Recipe, error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		recipe.Title = strings.TrimSpace(*p.Title)
	}
	if p.TimeMinutes != nil {
		recipe.TimeMinutes = *p.TimeMinutes
	}
	if p.Price != nil {
		recipe.Price = *p.Price
	}
	if p.Description != nil {
		recipe.Description = *p.Description
	}
	if p.Link != nil {
		recipe.Link = strings.TrimSpace(*p.Link)
	}

	if err := validateRecipeFields(recipe.Title, recipe.TimeMinutes, recipe.Price, recipe.Description, recipe.Link); err != nil {
		return nil, err
	}

	if p.Tags != nil {
		tags, err := s.resolveTags(ctx, userID, *p.Tags)
		if err != nil {
			return nil, err
		}
		recipe.Tags = tags
	}
	if p.Ingredients != nil {
		ingredients, err := s.resolveIngredients(ctx, userID, *p.Ingredients)
		if err != nil {
			return nil, err
		}
		recipe.Ingredients = ingredients
	}

	if err := s.recipes.UpdateRecipe(ctx, recipe); err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to update recipe",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("recipe updated", slog.String("id", recipe.ID))
	return recipe, nil
}

// Delete removes one of the caller's recipes. The image file (if any) is the
// handler's to clean up — the service reports the orphaned path.
func (s *RecipeService) Delete(ctx context.Context, userID, id string) (imagePath string, err error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}

	if err := s.recipes.DeleteRecipe(ctx, userID, id); err != nil {
		return "", err
	}

	s.logger.Info("recipe deleted", slog.String("id", id))
	return recipe.ImagePath, nil
}

// AttachImage records a freshly stored image against one of the caller's
// recipes and returns the previous image path so the caller can delete the
// orphaned file.
func (s *RecipeService) AttachImage(ctx context.Context, userID, id, imagePath, blurHash string) (prev string, err error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}

	if err := s.recipes.UpdateRecipeImage(ctx, userID, id, imagePath, blurHash); err != nil {
		return "", err
	}

	s.logger.Info("recipe image updated",
		slog.String("id", id),
		slog.String("image", imagePath),
	)

	return recipe.ImagePath, nil
}

// validateRecipeFields enforces the shared field rules for create and update.
func validateRecipeFields(title string, timeMinutes int, price decimal.Decimal, description, link string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperror.ValidationFailed("title", "recipe title is required")
	}
	if len(title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("recipe title must be %d characters or less", MaxTitleLength))
	}
	if timeMinutes < 0 {
		return apperror.ValidationFailed("timeMinutes", "time must be zero or more minutes")
	}
	if price.IsNegative() {
		return apperror.ValidationFailed("price", "price must not be negative")
	}
	if price.Exponent() < -2 {
		return apperror.ValidationFailed("price", "price must have at most two decimal places")
	}
	if len(description) > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if len(link) > MaxLinkLength {
		return apperror.ValidationFailed("link",
			fmt.Sprintf("link must be %d characters or less", MaxLinkLength))
	}
	return nil
}

// resolveTags maps tag references to tags owned by userID, deduplicated.
func (s *RecipeService) resolveTags(ctx context.Context, userID string, refs []EntityRef) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(refs))
	seen := make(map[string]bool, len(refs))

	for _, ref := range refs {
		var (
			tag *model.Tag
			err error
		)

		switch {
		case ref.ID != "":
			tag, err = s.tags.GetTag(ctx, userID, ref.ID)
		case strings.TrimSpace(ref.Name) != "":
			name := strings.TrimSpace(ref.Name)
			tag, err = s.tags.GetTagByName(ctx, userID, name)
			if err != nil && errors.Is(err, apperror.ErrNotFound) {
				tag = &model.Tag{UserID: userID, Name: name}
				err = s.tags.CreateTag(ctx, tag)
			}
		default:
			return nil, apperror.ValidationFailed("tags", "each tag needs an id or a name")
		}

		if err != nil {
			return nil, err
		}
		if !seen[tag.ID] {
			seen[tag.ID] = true
			tags = append(tags, *tag)
		}
	}

	return tags, nil
}

// resolveIngredients mirrors resolveTags for ingredients.
func (s *RecipeService) resolveIngredients(ctx context.Context, userID string, refs []EntityRef) ([]model.Ingredient, error) {
	ingredients := make([]model.Ingredient, 0, len(refs))
	seen := make(map[string]bool, len(refs))

	for _, ref := range refs {
		var (
			ingredient *model.Ingredient
			err        error
		)

		switch {
		case ref.ID != "":
			ingredient, err = s.ingredients.GetIngredient(ctx, userID, ref.ID)
		case strings.TrimSpace(ref.Name) != "":
			name := strings.TrimSpace(ref.Name)
			ingredient, err = s.ingredients.GetIngredientByName(ctx, userID, name)
			if err != nil && errors.Is(err, apperror.ErrNotFound) {
				ingredient = &model.Ingredient{UserID: userID, Name: name}
				err = s.ingredients.CreateIngredient(ctx, ingredient)
			}
		default:
			return nil, apperror.ValidationFailed("ingredients", "each ingredient needs an id or a name")
		}

		if err != nil {
			return nil, err
		}
		if !seen[ingredient.ID] {
			seen[ingredient.ID] = true
			ingredients = append(ingredients, *ingredient)
		}
	}

	return ingredients, nil
}
