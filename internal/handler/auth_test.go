package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/recipebox/internal/auth"
	"github.com/sakif/recipebox/internal/handler"
	"github.com/sakif/recipebox/internal/model"
)

func TestHandleRegister(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{
		"email":    "new@example.com",
		"password": "password123",
		"name":     "New User",
	}
	req := newRequest("", http.MethodPost, "/api/auth/register", jsonBody(t, body))
	rec := httptest.NewRecorder()
	env.authHandler.HandleRegister(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	user := decodeBody[model.User](t, rec)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "New User", user.Name)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)

	// The hash must never appear in a response.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "taken@example.com")

	body := map[string]string{"email": "Taken@Example.COM", "password": "password123"}
	req := newRequest("", http.MethodPost, "/api/auth/register", jsonBody(t, body))
	rec := httptest.NewRecorder()
	env.authHandler.HandleRegister(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	resp := decodeBody[handler.ErrorResponse](t, rec)
	assert.Equal(t, "conflict", resp.Error)
}

func TestHandleRegister_BadPayloads(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"not json", "{not json", "body"},
		{"unknown field", `{"email":"a@b.com","password":"password123","admin":true}`, "body"},
		{"missing email", `{"password":"password123"}`, "email"},
		{"short password", `{"email":"a@b.com","password":"abc"}`, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest("", http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			env.authHandler.HandleRegister(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			resp := decodeBody[handler.ErrorResponse](t, rec)
			assert.Equal(t, "validation_error", resp.Error)
			assert.Equal(t, tt.wantField, resp.Field)
		})
	}
}

func TestHandleLogin(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "login@example.com")

	body := map[string]string{"email": "login@example.com", "password": "password123"}
	req := newRequest("", http.MethodPost, "/api/auth/login", jsonBody(t, body))
	rec := httptest.NewRecorder()
	env.authHandler.HandleLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	resp := decodeBody[map[string]string](t, rec)
	require.NotEmpty(t, resp["token"])

	// The token must identify the user and also arrive as an HttpOnly cookie.
	userID, err := env.tokens.Validate(resp["token"])
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	cookie := findCookie(t, rec, auth.TokenCookieName)
	assert.Equal(t, resp["token"], cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Positive(t, cookie.MaxAge)
}

func TestHandleLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "login@example.com")

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"wrong password", map[string]string{"email": "login@example.com", "password": "wrongpass"}, http.StatusUnauthorized},
		{"unknown email", map[string]string{"email": "nobody@example.com", "password": "password123"}, http.StatusUnauthorized},
		{"missing password", map[string]string{"email": "login@example.com"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest("", http.MethodPost, "/api/auth/login", jsonBody(t, tt.body))
			rec := httptest.NewRecorder()
			env.authHandler.HandleLogin(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandleLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	req := newRequest("", http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	env.authHandler.HandleLogout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(t, rec, auth.TokenCookieName)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestHandleMe(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "me@example.com")

	req := newRequest(user.ID, http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	env.authHandler.HandleMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[model.User](t, rec)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "me@example.com", got.Email)
}

func TestHandleMe_NoAuthContext(t *testing.T) {
	env := newTestEnv(t)

	req := newRequest("", http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	env.authHandler.HandleMe(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}
