package handler

import (
	"net/http"

	"github.com/sakif/recipebox/internal/admin"
	"github.com/sakif/recipebox/internal/repository"
)

// AdminHandler serves the staff-only management surface: the entity
// registry, per-entity row counts, and the user directory. All routes sit
// behind RequireAuth + RequireStaff.
type AdminHandler struct {
	users repository.UserRepository
	stats repository.StatsRepository
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(users repository.UserRepository, stats repository.StatsRepository) *AdminHandler {
	return &AdminHandler{users: users, stats: stats}
}

// HandleEntities describes the manageable entities: list columns, search
// fields, default ordering. The admin frontend builds its views from this
// instead of hard-coding them.
//
// HTTP: GET /api/admin/entities
func (h *AdminHandler) HandleEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, admin.Registry())
}

// HandleStats returns row counts per entity.
//
// HTTP: GET /api/admin/stats
//
// Response: {"users": 3, "recipes": 17, "tags": 9, "ingredients": 42}
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.stats.EntityCounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// HandleListUsers returns accounts, optionally filtered by a substring
// match over email and name.
//
// HTTP: GET /api/admin/users?q=smith&limit=20&offset=0
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
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

	users, err := h.users.ListUsers(r.Context(), r.URL.Query().Get("q"), repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
