package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/hackconnect/internal/domain"
)

// ErrorResponse is the error envelope for every failed request. Code is set
// only where callers need to tell failure modes apart (the partial
// registration state); internal detail never leaves the server.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error onto the HTTP taxonomy. Anything
// unrecognized is treated as an upstream failure and reported generically.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var validationErr *domain.ValidationError
	var orphanErr *domain.OrphanedIdentityError

	switch {
	case errors.As(err, &orphanErr):
		// Checked before the sentinels: the orphan wraps the profile-create
		// cause, and the partial state must stay distinguishable no matter
		// what the underlying failure was.
		log.Error("registration left orphaned identity", slog.String("account_id", orphanErr.AccountID))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "registration could not be completed, please retry",
			Code:  "registration_incomplete",
		})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Msg})
	case errors.Is(err, domain.ErrNotMember):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "not in team"})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "email already registered"})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "user not found, please register"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found"})
	default:
		log.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Warn("failed to decode request body",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return false
	}
	return true
}
