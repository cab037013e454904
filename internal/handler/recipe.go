package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/sakif/recipebox/internal/apperror"
	"github.com/sakif/recipebox/internal/auth"
	"github.com/sakif/recipebox/internal/service"
	"github.com/sakif/recipebox/internal/upload"
)

// maxImageBytes caps recipe image uploads at 10 MiB. Enforced with
// http.MaxBytesReader, so an oversized body is cut off mid-transfer instead
// of buffered and then rejected.
const maxImageBytes = 10 << 20

// RecipeHandler manages CRUD for recipes plus image upload.
//
// Every route runs behind RequireAuth, and every service call is scoped to
// the authenticated user — a recipe ID belonging to someone else yields 404,
// indistinguishable from an ID that doesn't exist.
type RecipeHandler struct {
	recipes *service.RecipeService
	store   *upload.Store
	logger  *slog.Logger
}

// NewRecipeHandler creates a RecipeHandler.
func NewRecipeHandler(recipes *service.RecipeService, store *upload.Store, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, store: store, logger: logger}
}

// entityRef is the wire shape for a tag or ingredient reference: an existing
// row by id, or a name to get-or-create.
type entityRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func toServiceRefs(refs []entityRef) []service.EntityRef {
	out := make([]service.EntityRef, len(refs))
	for i, r := range refs {
		out[i] = service.EntityRef{ID: r.ID, Name: r.Name}
	}
	return out
}

// recipeRequest is the full-payload shape used by create and PUT.
// Price crosses the wire as a string ("4.25") to avoid float rounding.
type recipeRequest struct {
	Title       string          `json:"title"`
	TimeMinutes int             `json:"timeMinutes"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Link        string          `json:"link"`
	Tags        []entityRef     `json:"tags"`
	Ingredients []entityRef     `json:"ingredients"`
}

// recipePatchRequest is the sparse shape used by PATCH: absent fields stay
// nil and the service leaves them unchanged.
type recipePatchRequest struct {
	Title       *string          `json:"title"`
	TimeMinutes *int             `json:"timeMinutes"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Link        *string          `json:"link"`
	Tags        *[]entityRef     `json:"tags"`
	Ingredients *[]entityRef     `json:"ingredients"`
}

// HandleList returns the caller's recipes, newest first.
//
// HTTP: GET /api/recipes?limit=20&offset=0
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, err)
		return
	}

	recipes, err := h.recipes.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recipes)
}

// HandleCreate saves a new recipe.
//
// HTTP: POST /api/recipes
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req recipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	recipe, err := h.recipes.Create(r.Context(), userID, service.RecipeParams{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        toServiceRefs(req.Tags),
		Ingredients: toServiceRefs(req.Ingredients),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, recipe)
}

// HandleGet returns one recipe with its tags and ingredients.
//
// HTTP: GET /api/recipes/{id}
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	recipe, err := h.recipes.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// HandleReplace overwrites every mutable field of a recipe.
//
// HTTP: PUT /api/recipes/{id}
//
// PUT and PATCH share the service's patch path; PUT just sets every field.
// A PUT that omits "tags" clears them — full replacement means full.
func (h *RecipeHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req recipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tags := toServiceRefs(req.Tags)
	ingredients := toServiceRefs(req.Ingredients)

	recipe, err := h.recipes.Update(r.Context(), userID, r.PathValue("id"), service.RecipePatch{
		Title:       &req.Title,
		TimeMinutes: &req.TimeMinutes,
		Price:       &req.Price,
		Description: &req.Description,
		Link:        &req.Link,
		Tags:        &tags,
		Ingredients: &ingredients,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// HandlePatch updates only the fields present in the payload.
//
// HTTP: PATCH /api/recipes/{id}
func (h *RecipeHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req recipePatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := service.RecipePatch{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
	}
	if req.Tags != nil {
		tags := toServiceRefs(*req.Tags)
		patch.Tags = &tags
	}
	if req.Ingredients != nil {
		ingredients := toServiceRefs(*req.Ingredients)
		patch.Ingredients = &ingredients
	}

	recipe, err := h.recipes.Update(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// HandleDelete removes a recipe and its stored image file.
//
// HTTP: DELETE /api/recipes/{id}
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	imagePath, err := h.recipes.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	// The row is gone; a leftover file is an eyesore, not an error.
	if err := h.store.Remove(imagePath); err != nil {
		h.logger.Warn("failed to remove recipe image",
			slog.String("path", imagePath),
			slog.String("error", err.Error()),
		)
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadImage attaches an image to a recipe.
//
// HTTP: POST /api/recipes/{id}/image
// Body: multipart/form-data with an "image" file part
//
// The upload is buffered, decoded to verify it really is an image (and to
// compute the blurhash placeholder), then written to disk under a fresh
// UUID filename. The previous image, if any, is deleted after the database
// points at the new one.
func (h *RecipeHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, apperror.ValidationFailed("image", "multipart form is invalid or too large"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "an image file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "failed to read upload"))
		return
	}

	img, _, err := upload.DecodeImage(bytes.NewReader(data))
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "file is not a supported image format"))
		return
	}

	blurHash, err := upload.ComputeBlurHash(img)
	if err != nil {
		// A recipe without a placeholder is still a recipe.
		h.logger.Warn("blurhash computation failed", slog.String("error", err.Error()))
		blurHash = ""
	}

	imagePath := upload.RecipeImagePath(header.Filename, nil)
	if _, err := h.store.Save(imagePath, bytes.NewReader(data)); err != nil {
		h.logger.Error("failed to store image", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	prev, err := h.recipes.AttachImage(r.Context(), userID, id, imagePath, blurHash)
	if err != nil {
		// DB said no (likely 404) — don't leave the orphan on disk.
		if rmErr := h.store.Remove(imagePath); rmErr != nil {
			h.logger.Warn("failed to remove orphaned image", slog.String("error", rmErr.Error()))
		}
		writeError(w, err)
		return
	}

	if prev != "" && prev != imagePath {
		if err := h.store.Remove(prev); err != nil {
			h.logger.Warn("failed to remove replaced image",
				slog.String("path", prev),
				slog.String("error", err.Error()),
			)
		}
	}

	recipe, err := h.recipes.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.ValidationFailed(name, name+" must be an integer")
	}
	return n, nil
}

// queryBool parses an optional boolean query parameter, accepting the
// strconv.ParseBool spellings ("1", "true", "TRUE", ...).
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperror.ValidationFailed(name, name+" must be a boolean")
	}
	return v, nil
}
