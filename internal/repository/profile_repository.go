package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yourorg/hackconnect/internal/domain"
)

// ProfileRepository stores profile documents in the "users" collection of
// the remote document store. Document ids always equal the identity id.
type ProfileRepository struct {
	store      domain.DocumentStore
	collection string
	logger     *slog.Logger
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(store domain.DocumentStore, collection string, logger *slog.Logger) *ProfileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileRepository{
		store:      store,
		collection: collection,
		logger:     logger,
	}
}

func profileFromDocument(doc *domain.Document) *domain.Profile {
	return &domain.Profile{
		ID:              doc.ID,
		Username:        docString(doc.Data, "username"),
		Role:            docString(doc.Data, "role"),
		Bio:             docString(doc.Data, "bio"),
		AvatarURL:       docString(doc.Data, "avatar_url"),
		GithubURL:       docString(doc.Data, "github_url"),
		PortfolioURL:    docString(doc.Data, "portfolio_url"),
		Skills:          docStrings(doc.Data, "skills"),
		TechStack:       docStrings(doc.Data, "tech_stack"),
		XP:              docInt(doc.Data, "xp"),
		ReputationScore: docFloat(doc.Data, "reputation_score"),
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

// Create persists the initial profile document for a fresh registration.
func (r *ProfileRepository) Create(ctx context.Context, id, username, role, bio string) (*domain.Profile, error) {
	data := map[string]any{
		"username":         username,
		"account_id":       id,
		"role":             role,
		"bio":              bio,
		"skills":           []string{},
		"tech_stack":       []string{},
		"xp":               0,
		"reputation_score": 0.0,
	}
	doc, err := r.store.Create(ctx, r.collection, id, data)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	r.logger.Debug("profile created", slog.String("account_id", id))
	return profileFromDocument(doc), nil
}

// Get fetches one profile document.
func (r *ProfileRepository) Get(ctx context.Context, id string) (*domain.Profile, error) {
	doc, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profileFromDocument(doc), nil
}

// Update applies a partial update built from the non-nil fields of the
// sparse update. Last write wins on concurrent updates; there is no version
// token on the document.
func (r *ProfileRepository) Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Profile, error) {
	partial := map[string]any{}
	if update.Bio != nil {
		partial["bio"] = *update.Bio
	}
	if update.Skills != nil {
		partial["skills"] = update.Skills
	}
	if update.TechStack != nil {
		partial["tech_stack"] = update.TechStack
	}
	if update.GithubURL != nil {
		partial["github_url"] = *update.GithubURL
	}
	if update.PortfolioURL != nil {
		partial["portfolio_url"] = *update.PortfolioURL
	}
	if update.AvatarURL != nil {
		partial["avatar_url"] = *update.AvatarURL
	}
	if len(partial) == 0 {
		return r.Get(ctx, id)
	}

	doc, err := r.store.Update(ctx, r.collection, id, partial)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	r.logger.Debug("profile updated", slog.String("account_id", id), slog.Int("fields", len(partial)))
	return profileFromDocument(doc), nil
}
