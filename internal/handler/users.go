package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/service"
)

type userHackathonLister interface {
	GetUserHackathons(ctx context.Context, userID string) ([]service.UserHackathon, error)
}

// UsersHandler serves merged user views and per-user hackathon listings.
type UsersHandler struct {
	users      userService
	hackathons userHackathonLister
	logger     *slog.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(users userService, hackathons userHackathonLister, logger *slog.Logger) *UsersHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UsersHandler{
		users:      users,
		hackathons: hackathons,
		logger:     logger,
	}
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "user id required"})
		return
	}

	user, err := h.users.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id}: a sparse update where name routes to
// the identity store. Responds with the refreshed merged view.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "user id required"})
		return
	}

	var update domain.ProfileUpdate
	if !decodeJSON(w, r, h.logger, &update) {
		return
	}

	user, changed, err := h.users.UpdateProfile(r.Context(), id, update)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !changed {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "No changes provided"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Hackathons handles GET /api/users/{id}/hackathons.
func (h *UsersHandler) Hackathons(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "user id required"})
		return
	}

	entries, err := h.hackathons.GetUserHackathons(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hackathons": entries})
}
