package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/security/audit"
	"github.com/yourorg/hackconnect/internal/security/middleware"
	"github.com/yourorg/hackconnect/internal/service"
)

type teamService interface {
	CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error)
	GetTeam(ctx context.Context, teamID string) (*domain.Team, error)
	ListTeams(ctx context.Context, hackathonID string) ([]*domain.Team, error)
	DeleteTeam(ctx context.Context, teamID, requesterID string) error
	LeaveTeam(ctx context.Context, teamID, userID string) (service.LeaveResult, error)
}

// TeamsHandler exposes the roster operations.
type TeamsHandler struct {
	teams  teamService
	users  userService
	audit  *audit.Logger
	logger *slog.Logger
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(teams teamService, users userService, auditLog *audit.Logger, logger *slog.Logger) *TeamsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamsHandler{
		teams:  teams,
		users:  users,
		audit:  auditLog,
		logger: logger,
	}
}

// CreateTeamRequest represents the team creation payload.
type CreateTeamRequest struct {
	Name        string   `json:"name"`
	HackathonID string   `json:"hackathon_id"`
	LeaderID    string   `json:"leader_id"`
	Members     []string `json:"members"`
	LookingFor  []string `json:"looking_for"`
	Status      string   `json:"status"`
	ProjectRepo string   `json:"project_repo"`
}

// Create handles POST /api/teams.
func (h *TeamsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	team := &domain.Team{
		Name:        req.Name,
		HackathonID: req.HackathonID,
		LeaderID:    req.LeaderID,
		Members:     req.Members,
		LookingFor:  req.LookingFor,
		Status:      req.Status,
		ProjectRepo: req.ProjectRepo,
	}

	created, err := h.teams.CreateTeam(r.Context(), team)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/teams/{id}.
func (h *TeamsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "team id required"})
		return
	}

	team, err := h.teams.GetTeam(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// scoredTeam is a team annotated with how well the caller's skills cover
// the roles the team is looking for.
type scoredTeam struct {
	*domain.Team
	MatchScore int `json:"match_score"`
}

// List handles GET /api/teams?hackathon_id=&user_id=. With a user_id, each
// team gets a match_score against that user's skills.
func (h *TeamsHandler) List(w http.ResponseWriter, r *http.Request) {
	hackathonID := r.URL.Query().Get("hackathon_id")

	teams, err := h.teams.ListTeams(r.Context(), hackathonID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"teams": teams})
		return
	}

	user, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	scored := make([]scoredTeam, 0, len(teams))
	for _, team := range teams {
		scored = append(scored, scoredTeam{
			Team:       team,
			MatchScore: service.MatchScore(user.Skills, team.LookingFor),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"teams": scored})
}

// MembershipRequest identifies a user acting on a team.
type MembershipRequest struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
}

// requester resolves who is acting: an explicit body user_id wins, a
// session token fills the gap for clients that stopped sending one.
func requester(r *http.Request, bodyUserID string) string {
	if bodyUserID != "" {
		return bodyUserID
	}
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		return claims.UserID
	}
	return ""
}

// Delete handles DELETE /api/teams/delete. The leader check lives in the
// service; a denied attempt is audited and the document stays put.
func (h *TeamsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req MembershipRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	userID := requester(r, req.UserID)
	if req.TeamID == "" || userID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "team_id and user_id are required"})
		return
	}

	if err := h.teams.DeleteTeam(r.Context(), req.TeamID, userID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			h.audit.LogDenied(r.Context(), userID, "team", req.TeamID, "not the leader")
		}
		writeError(w, h.logger, err)
		return
	}

	h.audit.LogTeamDeletion(r.Context(), userID, req.TeamID, "success", "deleted by leader")
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Team deleted"})
}

// Leave handles POST /api/teams/leave. The response message tells the
// caller whether they simply left or the whole team disbanded with them.
func (h *TeamsHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req MembershipRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	userID := requester(r, req.UserID)
	if req.TeamID == "" || userID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "team_id and user_id are required"})
		return
	}

	result, err := h.teams.LeaveTeam(r.Context(), req.TeamID, userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if result == service.LeaveResultDisbanded {
		h.audit.LogTeamDeletion(r.Context(), userID, req.TeamID, "success", "disbanded on leader departure")
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": string(result)})
}
