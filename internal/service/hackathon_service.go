package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/observability/metrics"
	"github.com/yourorg/hackconnect/internal/repository"
	"github.com/yourorg/hackconnect/pkg/cache"
)

const (
	hackathonListKey = "hackathons:list"
	hackathonListTTL = 30 * time.Second
)

// HackathonService creates and lists hackathons. The full listing is served
// through a short-TTL cache because the recommendation endpoint re-reads it
// on every call.
type HackathonService struct {
	hackathons *repository.HackathonRepository
	cache      cache.Cache
	logger     *slog.Logger
}

// NewHackathonService creates a new hackathon service.
func NewHackathonService(hackathons *repository.HackathonRepository, c cache.Cache, logger *slog.Logger) *HackathonService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HackathonService{
		hackathons: hackathons,
		cache:      c,
		logger:     logger,
	}
}

// Create persists a new hackathon and invalidates the listing cache.
func (s *HackathonService) Create(ctx context.Context, h *domain.Hackathon) (*domain.Hackathon, error) {
	if h.Name == "" || h.Description == "" {
		return nil, domain.NewValidationError("name and description are required")
	}
	if h.Tags == nil {
		h.Tags = []string{}
	}

	created, err := s.hackathons.Create(ctx, uuid.NewString(), h)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, hackathonListKey)
	s.logger.Info("hackathon created", slog.String("hackathon_id", created.ID), slog.String("name", created.Name))
	return created, nil
}

// Get fetches one hackathon.
func (s *HackathonService) Get(ctx context.Context, id string) (*domain.Hackathon, error) {
	return s.hackathons.Get(ctx, id)
}

// List returns all hackathons, read through the cache.
func (s *HackathonService) List(ctx context.Context) ([]*domain.Hackathon, error) {
	if data, ok := s.cache.Get(ctx, hackathonListKey); ok {
		var cached []*domain.Hackathon
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.ObserveCacheLookup("hit")
			return cached, nil
		}
	}
	metrics.ObserveCacheLookup("miss")

	hackathons, err := s.hackathons.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(hackathons); err == nil {
		s.cache.Set(ctx, hackathonListKey, data, hackathonListTTL)
	}
	return hackathons, nil
}

// Recommend returns the hackathons overlapping the user's tags. Filtering
// happens here rather than store-side; the corpus is small and the listing
// is cached.
func (s *HackathonService) Recommend(ctx context.Context, userTags []string) ([]*domain.Hackathon, error) {
	hackathons, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterHackathonsByTags(hackathons, userTags), nil
}
