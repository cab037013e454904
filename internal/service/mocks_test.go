package service

// Hand-written in-memory mocks for the repository interfaces. A mock keeps
// the tests fast and lets them simulate states (foreign ownership, assigned
// tags) without a database. The sqlite package has its own tests against
// the real thing.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sakif/recipebox/internal/apperror"
	"github.com/sakif/recipebox/internal/model"
	"github.com/sakif/recipebox/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- users ---

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int

	failTouchLastLogin bool
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, existing := range m.users {
		// Same case-insensitive uniqueness the COLLATE NOCASE column gives.
		if strings.EqualFold(existing.Email, user.Email) {
			return apperror.Conflict("user", user.Email)
		}
	}

	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) UpdateUser(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	if m.failTouchLastLogin {
		return fmt.Errorf("mock: touch failed")
	}
	user, ok := m.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	user.LastLogin = &at
	return nil
}

func (m *mockUserRepo) ListUsers(_ context.Context, query string, opts repository.ListOptions) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, user := range m.users {
		if query != "" &&
			!strings.Contains(strings.ToLower(user.Email), strings.ToLower(query)) &&
			!strings.Contains(strings.ToLower(user.Name), strings.ToLower(query)) {
			continue
		}
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// --- tags ---

type mockTagRepo struct {
	tags   map[string]*model.Tag
	nextID int

	// assigned marks tag IDs attached to a recipe, for AssignedOnly tests.
	assigned map[string]bool
}

func newMockTagRepo() *mockTagRepo {
	return &mockTagRepo{
		tags:     make(map[string]*model.Tag),
		assigned: make(map[string]bool),
	}
}

func (m *mockTagRepo) CreateTag(_ context.Context, tag *model.Tag) error {
	m.nextID++
	tag.ID = fmt.Sprintf("tag-%d", m.nextID)
	stored := *tag
	m.tags[tag.ID] = &stored
	return nil
}

func (m *mockTagRepo) GetTag(_ context.Context, userID, id string) (*model.Tag, error) {
	tag, ok := m.tags[id]
	if !ok || tag.UserID != userID {
		return nil, apperror.NotFound("tag", id)
	}
	result := *tag
	return &result, nil
}

func (m *mockTagRepo) GetTagByName(_ context.Context, userID, name string) (*model.Tag, error) {
	for _, tag := range m.tags {
		if tag.UserID == userID && tag.Name == name {
			result := *tag
			return &result, nil
		}
	}
	return nil, apperror.NotFound("tag", name)
}

func (m *mockTagRepo) ListTags(_ context.Context, userID string, filter repository.CatalogFilter) ([]model.Tag, error) {
	result := []model.Tag{}
	for _, tag := range m.tags {
		if tag.UserID != userID {
			continue
		}
		if filter.AssignedOnly && !m.assigned[tag.ID] {
			continue
		}
		result = append(result, *tag)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name > result[j].Name })
	return result, nil
}

func (m *mockTagRepo) UpdateTag(_ context.Context, tag *model.Tag) error {
	existing, ok := m.tags[tag.ID]
	if !ok || existing.UserID != tag.UserID {
		return apperror.NotFound("tag", tag.ID)
	}
	stored := *tag
	m.tags[tag.ID] = &stored
	return nil
}

func (m *mockTagRepo) DeleteTag(_ context.Context, userID, id string) error {
	existing, ok := m.tags[id]
	if !ok || existing.UserID != userID {
		return apperror.NotFound("tag", id)
	}
	delete(m.tags, id)
	return nil
}

// --- ingredients ---

type mockIngredientRepo struct {
	ingredients map[string]*model.Ingredient
	nextID      int
	assigned    map[string]bool
}

func newMockIngredientRepo() *mockIngredientRepo {
	return &mockIngredientRepo{
		ingredients: make(map[string]*model.Ingredient),
		assigned:    make(map[string]bool),
	}
}

func (m *mockIngredientRepo) CreateIngredient(_ context.Context, ingredient *model.Ingredient) error {
	m.nextID++
	ingredient.ID = fmt.Sprintf("ingredient-%d", m.nextID)
	stored := *ingredient
	m.ingredients[ingredient.ID] = &stored
	return nil
}

func (m *mockIngredientRepo) GetIngredient(_ context.Context, userID, id string) (*model.Ingredient, error) {
	ingredient, ok := m.ingredients[id]
	if !ok || ingredient.UserID != userID {
		return nil, apperror.NotFound("ingredient", id)
	}
	result := *ingredient
	return &result, nil
}

func (m *mockIngredientRepo) GetIngredientByName(_ context.Context, userID, name string) (*model.Ingredient, error) {
	for _, ingredient := range m.ingredients {
		if ingredient.UserID == userID && ingredient.Name == name {
			result := *ingredient
			return &result, nil
		}
	}
	return nil, apperror.NotFound("ingredient", name)
}

func (m *mockIngredientRepo) ListIngredients(_ context.Context, userID string, filter repository.CatalogFilter) ([]model.Ingredient, error) {
	result := []model.Ingredient{}
	for _, ingredient := range m.ingredients {
		if ingredient.UserID != userID {
			continue
		}
		if filter.AssignedOnly && !m.assigned[ingredient.ID] {
			continue
		}
		result = append(result, *ingredient)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name > result[j].Name })
	return result, nil
}

func (m *mockIngredientRepo) UpdateIngredient(_ context.Context, ingredient *model.Ingredient) error {
	existing, ok := m.ingredients[ingredient.ID]
	if !ok || existing.UserID != ingredient.UserID {
		return apperror.NotFound("ingredient", ingredient.ID)
	}
	stored := *ingredient
	m.ingredients[ingredient.ID] = &stored
	return nil
}

func (m *mockIngredientRepo) DeleteIngredient(_ context.Context, userID, id string) error {
	existing, ok := m.ingredients[id]
	if !ok || existing.UserID != userID {
		return apperror.NotFound("ingredient", id)
	}
	delete(m.ingredients, id)
	return nil
}

// --- recipes ---

type mockRecipeRepo struct {
	recipes map[string]*model.Recipe
	order   []string // creation order, newest listed first
	nextID  int
}

func newMockRecipeRepo() *mockRecipeRepo {
	return &mockRecipeRepo{recipes: make(map[string]*model.Recipe)}
}

func (m *mockRecipeRepo) CreateRecipe(_ context.Context, recipe *model.Recipe) error {
	m.nextID++
	recipe.ID = fmt.Sprintf("recipe-%d", m.nextID)
	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	stored := *recipe
	m.recipes[recipe.ID] = &stored
	m.order = append(m.order, recipe.ID)
	return nil
}

func (m *mockRecipeRepo) GetRecipe(_ context.Context, userID, id string) (*model.Recipe, error) {
	recipe, ok := m.recipes[id]
	if !ok || recipe.UserID != userID {
		return nil, apperror.NotFound("recipe", id)
	}
	result := *recipe
	return &result, nil
}

func (m *mockRecipeRepo) ListRecipes(_ context.Context, userID string, opts repository.ListOptions) ([]model.Recipe, error) {
	result := []model.Recipe{}
	for i := len(m.order) - 1; i >= 0; i-- {
		recipe := m.recipes[m.order[i]]
		if recipe != nil && recipe.UserID == userID {
			result = append(result, *recipe)
		}
	}

	if opts.Offset >= len(result) {
		return []model.Recipe{}, nil
	}
	result = result[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (m *mockRecipeRepo) UpdateRecipe(_ context.Context, recipe *model.Recipe) error {
	existing, ok := m.recipes[recipe.ID]
	if !ok || existing.UserID != recipe.UserID {
		return apperror.NotFound("recipe", recipe.ID)
	}
	recipe.CreatedAt = existing.CreatedAt
	recipe.UpdatedAt = time.Now()
	stored := *recipe
	m.recipes[recipe.ID] = &stored
	return nil
}

func (m *mockRecipeRepo) DeleteRecipe(_ context.Context, userID, id string) error {
	existing, ok := m.recipes[id]
	if !ok || existing.UserID != userID {
		return apperror.NotFound("recipe", id)
	}
	delete(m.recipes, id)
	return nil
}

func (m *mockRecipeRepo) UpdateRecipeImage(_ context.Context, userID, id, imagePath, blurHash string) error {
	existing, ok := m.recipes[id]
	if !ok || existing.UserID != userID {
		return apperror.NotFound("recipe", id)
	}
	existing.ImagePath = imagePath
	existing.ImageBlurHash = blurHash
	return nil
}

// Compile-time checks that the mocks track the real interfaces.
var (
	_ repository.UserRepository       = (*mockUserRepo)(nil)
	_ repository.TagRepository        = (*mockTagRepo)(nil)
	_ repository.IngredientRepository = (*mockIngredientRepo)(nil)
	_ repository.RecipeRepository     = (*mockRecipeRepo)(nil)
)
