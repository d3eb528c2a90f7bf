package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/security/audit"
	"github.com/yourorg/hackconnect/internal/security/auth"
)

type userService interface {
	Register(ctx context.Context, email, password, name, username, role string) (*domain.User, error)
	Login(ctx context.Context, id string) (*domain.User, error)
	GetProfile(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, bool, error)
	ChangePassword(ctx context.Context, id, newPassword string) error
}

// AuthHandler handles registration, login sync, profile updates, and
// password changes.
type AuthHandler struct {
	users        userService
	tokenManager *auth.TokenManager
	audit        *audit.Logger
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users userService, tm *auth.TokenManager, auditLog *audit.Logger, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:        users,
		tokenManager: tm,
		audit:        auditLog,
		logger:       logger,
	}
}

// RegisterRequest represents the registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name, req.Username, req.Role)
	if err != nil {
		h.audit.LogRegistration(r.Context(), "", "failed", err.Error())
		writeError(w, h.logger, err)
		return
	}

	h.audit.LogRegistration(r.Context(), user.ID, "success", "")
	writeJSON(w, http.StatusCreated, user)
}

// LoginRequest carries the account id the frontend got from the hosted
// auth session.
type LoginRequest struct {
	ID string `json:"id"`
}

// LoginResponse is the merged user view plus a session token.
type LoginResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	user, err := h.users.Login(r.Context(), req.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	expiresIn := 24 * time.Hour
	token, err := h.tokenManager.GenerateToken(user.ID, user.Email, expiresIn)
	if err != nil {
		h.logger.Error("failed to generate token",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.logger.Info("user logged in", slog.String("user_id", user.ID))
	writeJSON(w, http.StatusOK, LoginResponse{
		User:      user,
		Token:     token,
		ExpiresAt: time.Now().Add(expiresIn),
	})
}

// UpdateProfileRequest is the sparse self-service profile update.
type UpdateProfileRequest struct {
	UserID    string   `json:"user_id"`
	Bio       *string  `json:"bio"`
	Skills    []string `json:"skills"`
	GithubURL *string  `json:"github_url"`
	AvatarURL *string  `json:"avatar_url"`
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	update := domain.ProfileUpdate{
		Bio:       req.Bio,
		Skills:    req.Skills,
		GithubURL: req.GithubURL,
		AvatarURL: req.AvatarURL,
	}

	_, changed, err := h.users.UpdateProfile(r.Context(), req.UserID, update)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !changed {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "No changes provided"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Profile updated"})
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	if err := h.users.ChangePassword(r.Context(), req.UserID, req.NewPassword); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Password changed"})
}
