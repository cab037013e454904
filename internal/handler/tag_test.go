package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/recipebox/internal/handler"
	"github.com/sakif/recipebox/internal/model"
	"github.com/sakif/recipebox/internal/service"
)

func TestTagCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "cook@example.com")

	for _, name := range []string{"vegan", "dessert"} {
		req := newRequest(user.ID, http.MethodPost, "/api/tags",
			strings.NewReader(`{"name":"`+name+`"}`))
		rec := httptest.NewRecorder()
		env.tags.HandleCreate(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	}

	req := newRequest(user.ID, http.MethodGet, "/api/tags", nil)
	rec := httptest.NewRecorder()
	env.tags.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[[]model.Tag](t, rec)
	require.Len(t, got, 2)
	// Listings are name-descending.
	assert.Equal(t, "vegan", got[0].Name)
	assert.Equal(t, "dessert", got[1].Name)
}

func TestTagList_AssignedOnly(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "cook@example.com")

	_, err := env.recipeSvc.Create(context.Background(), user.ID, service.RecipeParams{
		Title:       "Lentil soup",
		TimeMinutes: 40,
		Price:       decimal.RequireFromString("6.00"),
		Tags:        []service.EntityRef{{Name: "vegan"}},
	})
	require.NoError(t, err)

	req := newRequest(user.ID, http.MethodPost, "/api/tags", strings.NewReader(`{"name":"unused"}`))
	rec := httptest.NewRecorder()
	env.tags.HandleCreate(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = newRequest(user.ID, http.MethodGet, "/api/tags?assigned_only=1", nil)
	rec = httptest.NewRecorder()
	env.tags.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[[]model.Tag](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "vegan", got[0].Name)
}

func TestTagList_BadAssignedOnly(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "cook@example.com")

	req := newRequest(user.ID, http.MethodGet, "/api/tags?assigned_only=banana", nil)
	rec := httptest.NewRecorder()
	env.tags.HandleList(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[handler.ErrorResponse](t, rec)
	assert.Equal(t, "assigned_only", resp.Field)
}

func TestTagUpdate(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "cook@example.com")

	req := newRequest(user.ID, http.MethodPost, "/api/tags", strings.NewReader(`{"name":"diner"}`))
	rec := httptest.NewRecorder()
	env.tags.HandleCreate(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	tag := decodeBody[model.Tag](t, rec)

	req = newRequest(user.ID, http.MethodPatch, "/api/tags/"+tag.ID, strings.NewReader(`{"name":"dinner"}`))
	req.SetPathValue("id", tag.ID)
	rec = httptest.NewRecorder()
	env.tags.HandleUpdate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	got := decodeBody[model.Tag](t, rec)
	assert.Equal(t, "dinner", got.Name)
}

func TestTagDelete(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "cook@example.com")

	req := newRequest(user.ID, http.MethodPost, "/api/tags", strings.NewReader(`{"name":"fleeting"}`))
	rec := httptest.NewRecorder()
	env.tags.HandleCreate(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	tag := decodeBody[model.Tag](t, rec)

	req = newRequest(user.ID, http.MethodDelete, "/api/tags/"+tag.ID, nil)
	req.SetPathValue("id", tag.ID)
	rec = httptest.NewRecorder()
	env.tags.HandleDelete(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = newRequest(user.ID, http.MethodGet, "/api/tags/"+tag.ID, nil)
	req.SetPathValue("id", tag.ID)
	rec = httptest.NewRecorder()
	env.tags.HandleGet(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTagGet_ForeignTagIs404(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, "owner@example.com")
	other := env.registerUser(t, "other@example.com")

	req := newRequest(owner.ID, http.MethodPost, "/api/tags", strings.NewReader(`{"name":"private"}`))
	rec := httptest.NewRecorder()
	env.tags.HandleCreate(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	tag := decodeBody[model.Tag](t, rec)

	req = newRequest(other.ID, http.MethodGet, "/api/tags/"+tag.ID, nil)
	req.SetPathValue("id", tag.ID)
	rec = httptest.NewRecorder()
	env.tags.HandleGet(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
