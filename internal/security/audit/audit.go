package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/hackconnect/internal/security/middleware"
)

// Logger emits structured audit records for security-relevant actions.
type Logger struct {
	logger *slog.Logger
}

// NewLogger wraps a slog logger for audit output.
func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

// LogAction records one auditable action, correlated with the request that
// caused it via the request id.
func (al *Logger) LogAction(ctx context.Context, userID, action, resource, resourceID, status, details string) {
	al.logger.Info("audit",
		slog.String("request_id", middleware.GetRequestID(ctx)),
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("details", details),
		slog.Time("timestamp", time.Now()),
	)
}

// LogRegistration records a registration attempt and its outcome.
func (al *Logger) LogRegistration(ctx context.Context, accountID, status, details string) {
	al.LogAction(ctx, accountID, "register", "user", accountID, status, details)
}

// LogTeamDeletion records a team deletion (explicit or disband).
func (al *Logger) LogTeamDeletion(ctx context.Context, userID, teamID, status, details string) {
	al.LogAction(ctx, userID, "delete", "team", teamID, status, details)
}

// LogDenied records an action rejected by an access-control rule.
func (al *Logger) LogDenied(ctx context.Context, userID, resource, resourceID, reason string) {
	al.LogAction(ctx, userID, "access_denied", resource, resourceID, "denied", reason)
}
