package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/observability/metrics"
	"github.com/yourorg/hackconnect/internal/repository"
)

const scanPageSize = 100

// ConsistencyWorker periodically sweeps the identity store and reports
// identities with no matching profile document. It is read-only: orphans are
// surfaced through logs and metrics for an operator, never repaired, because
// the missing profile's original inputs (username, role) are gone with the
// failed request that created the orphan.
type ConsistencyWorker struct {
	identities domain.IdentityStore
	profiles   *repository.ProfileRepository
	logger     *slog.Logger
	interval   time.Duration
}

// NewConsistencyWorker creates a new consistency worker.
func NewConsistencyWorker(
	identities domain.IdentityStore,
	profiles *repository.ProfileRepository,
	logger *slog.Logger,
	interval time.Duration,
) *ConsistencyWorker {
	return &ConsistencyWorker{
		identities: identities,
		profiles:   profiles,
		logger:     logger,
		interval:   interval,
	}
}

// Start begins the scan loop and blocks until the context is canceled.
func (w *ConsistencyWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("consistency worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("consistency worker stopped")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

// scan pages through every identity and probes its profile document.
func (w *ConsistencyWorker) scan(ctx context.Context) {
	w.logger.Info("running identity/profile consistency scan")

	scanned := 0
	orphans := 0
	offset := 0

	for {
		identities, err := w.identities.List(ctx, scanPageSize, offset)
		if err != nil {
			w.logger.Error("consistency scan aborted",
				slog.Int("scanned", scanned),
				slog.String("error", err.Error()),
			)
			return
		}
		if len(identities) == 0 {
			break
		}

		for _, identity := range identities {
			scanned++
			if _, err := w.profiles.Get(ctx, identity.ID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					orphans++
					metrics.ObserveOrphanedIdentity()
					w.logger.Warn("orphaned identity detected",
						slog.String("account_id", identity.ID),
						slog.String("email", identity.Email),
					)
					continue
				}
				w.logger.Error("profile probe failed",
					slog.String("account_id", identity.ID),
					slog.String("error", err.Error()),
				)
			}
		}

		if len(identities) < scanPageSize {
			break
		}
		offset += scanPageSize
	}

	w.logger.Info("consistency scan finished",
		slog.Int("scanned", scanned),
		slog.Int("orphans", orphans),
	)
}
