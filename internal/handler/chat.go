package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/yourorg/hackconnect/internal/chat"
)

// ChatHandler upgrades team chat connections. Membership is checked against
// the roster before the upgrade; the check is not re-run afterwards, so a
// member who leaves keeps the open socket until it closes.
type ChatHandler struct {
	hub            *chat.Hub
	teams          teamService
	users          userService
	allowedOrigins []string
	logger         *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(hub *chat.Hub, teams teamService, users userService, allowedOrigins []string, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		hub:            hub,
		teams:          teams,
		users:          users,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

func (h *ChatHandler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws/teams/{id}/chat?user_id=.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	teamID := r.PathValue("id")
	userID := r.URL.Query().Get("user_id")
	if teamID == "" || userID == "" {
		http.Error(w, "team id and user_id required", http.StatusBadRequest)
		return
	}

	team, err := h.teams.GetTeam(r.Context(), teamID)
	if err != nil {
		h.logger.Warn("chat team lookup failed",
			slog.String("team_id", teamID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "team not found", http.StatusNotFound)
		return
	}
	if !team.HasMember(userID) {
		http.Error(w, "not in team", http.StatusForbidden)
		return
	}

	name := userID
	if user, err := h.users.GetProfile(r.Context(), userID); err == nil {
		name = user.Name
	}

	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	h.hub.Join(teamID, userID, name, ws)
}
