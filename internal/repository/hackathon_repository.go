package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yourorg/hackconnect/internal/domain"
)

// HackathonRepository stores hackathon documents. This system creates and
// lists them; it never mutates an existing one.
type HackathonRepository struct {
	store      domain.DocumentStore
	collection string
	logger     *slog.Logger
}

// NewHackathonRepository creates a new hackathon repository.
func NewHackathonRepository(store domain.DocumentStore, collection string, logger *slog.Logger) *HackathonRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &HackathonRepository{
		store:      store,
		collection: collection,
		logger:     logger,
	}
}

func hackathonFromDocument(doc *domain.Document) *domain.Hackathon {
	return &domain.Hackathon{
		ID:          doc.ID,
		Name:        docString(doc.Data, "name"),
		Description: docString(doc.Data, "description"),
		Date:        docString(doc.Data, "date"),
		Location:    docString(doc.Data, "location"),
		Tags:        docStrings(doc.Data, "tags"),
		ImageURL:    docString(doc.Data, "image_url"),
		CreatedAt:   doc.CreatedAt,
	}
}

// Create persists a new hackathon document.
func (r *HackathonRepository) Create(ctx context.Context, id string, h *domain.Hackathon) (*domain.Hackathon, error) {
	data := map[string]any{
		"name":        h.Name,
		"description": h.Description,
		"date":        h.Date,
		"location":    h.Location,
		"tags":        h.Tags,
	}
	if h.ImageURL != "" {
		data["image_url"] = h.ImageURL
	}

	doc, err := r.store.Create(ctx, r.collection, id, data)
	if err != nil {
		return nil, fmt.Errorf("create hackathon: %w", err)
	}
	r.logger.Debug("hackathon created", slog.String("hackathon_id", doc.ID))
	return hackathonFromDocument(doc), nil
}

// Get fetches one hackathon.
func (r *HackathonRepository) Get(ctx context.Context, id string) (*domain.Hackathon, error) {
	doc, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		return nil, fmt.Errorf("get hackathon: %w", err)
	}
	return hackathonFromDocument(doc), nil
}

// List returns all hackathon documents.
func (r *HackathonRepository) List(ctx context.Context) ([]*domain.Hackathon, error) {
	docs, err := r.store.List(ctx, r.collection, nil)
	if err != nil {
		return nil, fmt.Errorf("list hackathons: %w", err)
	}
	return hackathonsFromDocuments(docs), nil
}

// ListByIDs fetches the named hackathons in one filtered call.
func (r *HackathonRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Hackathon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	docs, err := r.store.List(ctx, r.collection, []domain.Query{domain.QueryEqual("$id", values...)})
	if err != nil {
		return nil, fmt.Errorf("list hackathons by id: %w", err)
	}
	return hackathonsFromDocuments(docs), nil
}

func hackathonsFromDocuments(docs []*domain.Document) []*domain.Hackathon {
	out := make([]*domain.Hackathon, 0, len(docs))
	for _, doc := range docs {
		out = append(out, hackathonFromDocument(doc))
	}
	return out
}
