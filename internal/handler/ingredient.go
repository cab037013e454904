package handler

import (
	"net/http"

	"github.com/sakif/recipebox/internal/auth"
	"github.com/sakif/recipebox/internal/service"
)

// IngredientHandler manages CRUD for the caller's ingredients. Same surface
// as TagHandler over the other catalog.
type IngredientHandler struct {
	ingredients *service.IngredientService
}

// NewIngredientHandler creates an IngredientHandler.
func NewIngredientHandler(ingredients *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

// HandleList returns the caller's ingredients, name-descending.
//
// HTTP: GET /api/ingredients?assigned_only=1
func (h *IngredientHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	assignedOnly, err := queryBool(r, "assigned_only")
	if err != nil {
		writeError(w, err)
		return
	}

	ingredients, err := h.ingredients.List(r.Context(), userID, assignedOnly)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ingredients)
}

// HandleCreate saves a new ingredient.
//
// HTTP: POST /api/ingredients
func (h *IngredientHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ingredient, err := h.ingredients.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingredient)
}

// HandleGet returns one ingredient.
//
// HTTP: GET /api/ingredients/{id}
func (h *IngredientHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	ingredient, err := h.ingredients.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ingredient)
}

// HandleUpdate renames an ingredient.
//
// HTTP: PUT/PATCH /api/ingredients/{id}
func (h *IngredientHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ingredient, err := h.ingredients.Update(r.Context(), userID, r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ingredient)
}

// HandleDelete removes an ingredient.
//
// HTTP: DELETE /api/ingredients/{id}
func (h *IngredientHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.ingredients.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
