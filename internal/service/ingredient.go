package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/recipebox/internal/apperror"
	"github.com/sakif/recipebox/internal/model"
	"github.com/sakif/recipebox/internal/repository"
)

// IngredientService handles business logic for ingredients. It mirrors
// TagService — the two catalogs share their rules but not their storage.
type IngredientService struct {
	repo   repository.IngredientRepository
	logger *slog.Logger
}

// NewIngredientService creates an IngredientService.
func NewIngredientService(repo repository.IngredientRepository, logger *slog.Logger) *IngredientService {
	return &IngredientService{repo: repo, logger: logger}
}

// Create saves a new ingredient for userID.
func (s *IngredientService) Create(ctx context.Context, userID, name string) (*model.Ingredient, error) {
	name, err := validateCatalogName("ingredient", name)
	if err != nil {
		return nil, err
	}

	ingredient := &model.Ingredient{UserID: userID, Name: name}
	if err := s.repo.CreateIngredient(ctx, ingredient); err != nil {
		s.logger.Error("failed to create ingredient",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating ingredient: %w", err)
	}

	s.logger.Info("ingredient created",
		slog.String("id", ingredient.ID),
		slog.String("name", ingredient.Name),
	)
	return ingredient, nil
}

// Get retrieves one of the caller's ingredients.
func (s *IngredientService) Get(ctx context.Context, userID, id string) (*model.Ingredient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "ingredient ID is required")
	}
	return s.repo.GetIngredient(ctx, userID, id)
}

// List returns the caller's ingredients, name-descending; assignedOnly
// restricts to ingredients attached to at least one recipe, deduplicated.
func (s *IngredientService) List(ctx context.Context, userID string, assignedOnly bool) ([]model.Ingredient, error) {
	ingredients, err := s.repo.ListIngredients(ctx, userID, repository.CatalogFilter{AssignedOnly: assignedOnly})
	if err != nil {
		s.logger.Error("failed to list ingredients", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing ingredients: %w", err)
	}
	return ingredients, nil
}

// Update renames one of the caller's ingredients.
func (s *IngredientService) Update(ctx context.Context, userID, id, name string) (*model.Ingredient, error) {
	ingredient, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name, err = validateCatalogName("ingredient", name)
	if err != nil {
		return nil, err
	}

	ingredient.Name = name
	if err := s.repo.UpdateIngredient(ctx, ingredient); err != nil {
		return nil, err
	}

	s.logger.Info("ingredient updated", slog.String("id", ingredient.ID))
	return ingredient, nil
}

// Delete removes one of the caller's ingredients.
func (s *IngredientService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "ingredient ID is required")
	}

	if err := s.repo.DeleteIngredient(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("ingredient deleted", slog.String("id", id))
	return nil
}
