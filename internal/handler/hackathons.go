package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/service"
)

type hackathonService interface {
	Create(ctx context.Context, h *domain.Hackathon) (*domain.Hackathon, error)
	Get(ctx context.Context, id string) (*domain.Hackathon, error)
	List(ctx context.Context) ([]*domain.Hackathon, error)
	Recommend(ctx context.Context, userTags []string) ([]*domain.Hackathon, error)
}

type summaryService interface {
	Summarize(ctx context.Context, description string) (string, error)
}

// HackathonsHandler exposes hackathon CRUD, tag recommendations, and the AI
// summary helper.
type HackathonsHandler struct {
	hackathons hackathonService
	summaries  summaryService
	logger     *slog.Logger
}

// NewHackathonsHandler creates a new hackathons handler.
func NewHackathonsHandler(hackathons hackathonService, summaries summaryService, logger *slog.Logger) *HackathonsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HackathonsHandler{
		hackathons: hackathons,
		summaries:  summaries,
		logger:     logger,
	}
}

// CreateHackathonRequest represents the hackathon creation payload.
type CreateHackathonRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"image_url"`
}

// Create handles POST /api/hackathons.
func (h *HackathonsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateHackathonRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	created, err := h.hackathons.Create(r.Context(), &domain.Hackathon{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Tags:        req.Tags,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/hackathons/{id}.
func (h *HackathonsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "hackathon id required"})
		return
	}

	hackathon, err := h.hackathons.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, hackathon)
}

// List handles GET /api/hackathons.
func (h *HackathonsHandler) List(w http.ResponseWriter, r *http.Request) {
	hackathons, err := h.hackathons.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hackathons": hackathons})
}

// Recommend handles POST /api/hackathons/recommendations. The body is a bare
// JSON array of tag strings; an empty array recommends everything.
func (h *HackathonsHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var tags []string
	if !decodeJSON(w, r, h.logger, &tags) {
		return
	}

	hackathons, err := h.hackathons.Recommend(r.Context(), tags)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hackathons": hackathons})
}

// Summarize handles POST /api/hackathons/{id}/summary.
func (h *HackathonsHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "hackathon id required"})
		return
	}

	hackathon, err := h.hackathons.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	summary, err := h.summaries.Summarize(r.Context(), hackathon.Description)
	if err != nil {
		if errors.Is(err, service.ErrSummaryUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "summaries unavailable"})
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}
