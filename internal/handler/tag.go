package handler

import (
	"net/http"

	"github.com/sakif/recipebox/internal/auth"
	"github.com/sakif/recipebox/internal/service"
)

// TagHandler manages CRUD for the caller's tags.
type TagHandler struct {
	tags *service.TagService
}

// NewTagHandler creates a TagHandler.
func NewTagHandler(tags *service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// catalogRequest is the payload for creating or renaming a tag or
// ingredient — both catalogs are just named entries.
type catalogRequest struct {
	Name string `json:"name"`
}

// HandleList returns the caller's tags, name-descending.
//
// HTTP: GET /api/tags?assigned_only=1
//
// With assigned_only set, only tags attached to at least one recipe are
// returned, each exactly once.
func (h *TagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	assignedOnly, err := queryBool(r, "assigned_only")
	if err != nil {
		writeError(w, err)
		return
	}

	tags, err := h.tags.List(r.Context(), userID, assignedOnly)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

// HandleCreate saves a new tag.
//
// HTTP: POST /api/tags
func (h *TagHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tag, err := h.tags.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tag)
}

// HandleGet returns one tag.
//
// HTTP: GET /api/tags/{id}
func (h *TagHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	tag, err := h.tags.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tag)
}

// HandleUpdate renames a tag. A tag has one mutable field, so PUT and PATCH
// are the same operation and share this handler.
//
// HTTP: PUT/PATCH /api/tags/{id}
func (h *TagHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tag, err := h.tags.Update(r.Context(), userID, r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tag)
}

// HandleDelete removes a tag. Recipes keep existing; the link rows cascade.
//
// HTTP: DELETE /api/tags/{id}
func (h *TagHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.tags.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
