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

// MaxCatalogNameLength bounds tag and ingredient names.
const MaxCatalogNameLength = 255

// TagService handles business logic for tags.
type TagService struct {
	repo   repository.TagRepository
	logger *slog.Logger
}

// NewTagService creates a TagService.
func NewTagService(repo repository.TagRepository, logger *slog.Logger) *TagService {
	return &TagService{repo: repo, logger: logger}
}

// Create saves a new tag for userID.
func (s *TagService) Create(ctx context.Context, userID, name string) (*model.Tag, error) {
	name, err := validateCatalogName("tag", name)
	if err != nil {
		return nil, err
	}

	tag := &model.Tag{UserID: userID, Name: name}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		s.logger.Error("failed to create tag",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating tag: %w", err)
	}

	s.logger.Info("tag created", slog.String("id", tag.ID), slog.String("name", tag.Name))
	return tag, nil
}

// Get retrieves one of the caller's tags.
func (s *TagService) Get(ctx context.Context, userID, id string) (*model.Tag, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "tag ID is required")
	}
	return s.repo.GetTag(ctx, userID, id)
}

// List returns the caller's tags, name-descending. With assignedOnly set,
// only tags attached to at least one of the caller's recipes are returned,
// each exactly once.
func (s *TagService) List(ctx context.Context, userID string, assignedOnly bool) ([]model.Tag, error) {
	tags, err := s.repo.ListTags(ctx, userID, repository.CatalogFilter{AssignedOnly: assignedOnly})
	if err != nil {
		s.logger.Error("failed to list tags", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// Update renames one of the caller's tags.
func (s *TagService) Update(ctx context.Context, userID, id, name string) (*model.Tag, error) {
	tag, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name, err = validateCatalogName("tag", name)
	if err != nil {
		return nil, err
	}

	tag.Name = name
	if err := s.repo.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag updated", slog.String("id", tag.ID))
	return tag, nil
}

// Delete removes one of the caller's tags.
func (s *TagService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "tag ID is required")
	}

	if err := s.repo.DeleteTag(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("tag deleted", slog.String("id", id))
	return nil
}

// validateCatalogName applies the shared name rules for tags and
// ingredients. Returns the trimmed name.
func validateCatalogName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.ValidationFailed("name", kind+" name is required")
	}
	if len(name) > MaxCatalogNameLength {
		return "", apperror.ValidationFailed("name",
			fmt.Sprintf("%s name must be %d characters or less", kind, MaxCatalogNameLength))
	}
	return name, nil
}
