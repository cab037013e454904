package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/recipebox/internal/auth"
	"github.com/sakif/recipebox/internal/handler"
	"github.com/sakif/recipebox/internal/model"
	"github.com/sakif/recipebox/internal/repository/sqlite"
	"github.com/sakif/recipebox/internal/service"
	"github.com/sakif/recipebox/internal/upload"
	"github.com/sakif/recipebox/internal/validation"
)

// testEnv wires real services over a throwaway SQLite database, so handler
// tests exercise the full request path below the router.
type testEnv struct {
	db      *sqlite.DB
	dataDir string
	store   *upload.Store

	users       *service.UserService
	recipeSvc   *service.RecipeService
	tokens      *auth.TokenService
	authHandler *handler.AuthHandler
	recipes     *handler.RecipeHandler
	tags        *handler.TagHandler
	ingredients *handler.IngredientHandler
	admin       *handler.AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dataDir := t.TempDir()
	store, err := upload.NewStore(dataDir)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	userSvc := service.NewUserService(db, auth.NewPasswordServiceForTest(4), logger)
	recipeSvc := service.NewRecipeService(db, db, db, logger)
	tagSvc := service.NewTagService(db, logger)
	ingredientSvc := service.NewIngredientService(db, logger)
	validate := validation.New()

	return &testEnv{
		db:          db,
		dataDir:     dataDir,
		store:       store,
		users:       userSvc,
		recipeSvc:   recipeSvc,
		tokens:      tokens,
		authHandler: handler.NewAuthHandler(userSvc, tokens, nil, validate, logger),
		recipes:     handler.NewRecipeHandler(recipeSvc, store, logger),
		tags:        handler.NewTagHandler(tagSvc),
		ingredients: handler.NewIngredientHandler(ingredientSvc),
		admin:       handler.NewAdminHandler(db, db),
	}
}

// registerUser creates an account directly through the service layer.
func (e *testEnv) registerUser(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), email, "password123", "Test User")
	require.NoError(t, err)
	return user
}

// newRequest builds a request authenticated as userID, bypassing the JWT
// middleware; the middleware has its own tests.
func newRequest(userID, method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req = req.WithContext(auth.ContextWithUserID(req.Context(), userID))
	}
	return req
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), "body: %s", rec.Body.String())
	return out
}
