package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yourorg/hackconnect/internal/domain"
)

// TeamRepository stores team documents in the "teams" collection.
type TeamRepository struct {
	store      domain.DocumentStore
	collection string
	logger     *slog.Logger
}

// NewTeamRepository creates a new team repository.
func NewTeamRepository(store domain.DocumentStore, collection string, logger *slog.Logger) *TeamRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamRepository{
		store:      store,
		collection: collection,
		logger:     logger,
	}
}

func teamFromDocument(doc *domain.Document) *domain.Team {
	return &domain.Team{
		ID:          doc.ID,
		HackathonID: docString(doc.Data, "hackathon_id"),
		Name:        docString(doc.Data, "name"),
		LeaderID:    docString(doc.Data, "leader_id"),
		Members:     docStrings(doc.Data, "members"),
		LookingFor:  docStrings(doc.Data, "looking_for"),
		Status:      docString(doc.Data, "status"),
		ProjectRepo: docString(doc.Data, "project_repo"),
		CreatedAt:   doc.CreatedAt,
	}
}

// Create persists a new team document.
func (r *TeamRepository) Create(ctx context.Context, id string, team *domain.Team) (*domain.Team, error) {
	data := map[string]any{
		"hackathon_id": team.HackathonID,
		"name":         team.Name,
		"leader_id":    team.LeaderID,
		"members":      team.Members,
		"looking_for":  team.LookingFor,
		"status":       team.Status,
	}
	if team.ProjectRepo != "" {
		data["project_repo"] = team.ProjectRepo
	}

	doc, err := r.store.Create(ctx, r.collection, id, data)
	if err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	r.logger.Debug("team created", slog.String("team_id", doc.ID), slog.String("hackathon_id", team.HackathonID))
	return teamFromDocument(doc), nil
}

// Get fetches one team.
func (r *TeamRepository) Get(ctx context.Context, id string) (*domain.Team, error) {
	doc, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	return teamFromDocument(doc), nil
}

// UpdateMembers replaces the member set via a partial update. Last write
// wins on concurrent roster changes.
func (r *TeamRepository) UpdateMembers(ctx context.Context, id string, members []string) (*domain.Team, error) {
	doc, err := r.store.Update(ctx, r.collection, id, map[string]any{"members": members})
	if err != nil {
		return nil, fmt.Errorf("update team members: %w", err)
	}
	return teamFromDocument(doc), nil
}

// Delete removes the team document.
func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.collection, id); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}

// ListByHackathon returns all teams for one hackathon.
func (r *TeamRepository) ListByHackathon(ctx context.Context, hackathonID string) ([]*domain.Team, error) {
	docs, err := r.store.List(ctx, r.collection, []domain.Query{domain.QueryEqual("hackathon_id", hackathonID)})
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teamsFromDocuments(docs), nil
}

// ListByMember returns all teams whose roster contains the user.
func (r *TeamRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Team, error) {
	docs, err := r.store.List(ctx, r.collection, []domain.Query{domain.QueryContains("members", userID)})
	if err != nil {
		return nil, fmt.Errorf("list teams by member: %w", err)
	}
	return teamsFromDocuments(docs), nil
}

func teamsFromDocuments(docs []*domain.Document) []*domain.Team {
	out := make([]*domain.Team, 0, len(docs))
	for _, doc := range docs {
		out = append(out, teamFromDocument(doc))
	}
	return out
}
