package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/infrastructure/memstore"
	"github.com/yourorg/hackconnect/internal/repository"
	"github.com/yourorg/hackconnect/pkg/cache"
)

func newHackathonService() (*HackathonService, *repository.HackathonRepository) {
	documents := memstore.NewDocumentStore()
	repo := repository.NewHackathonRepository(documents, "hackathons", nil)
	return NewHackathonService(repo, cache.NewMemory(), nil), repo
}

func TestHackathonCreateValidation(t *testing.T) {
	s, _ := newHackathonService()

	var validationErr *domain.ValidationError
	_, err := s.Create(context.Background(), &domain.Hackathon{Name: "no description"})
	require.ErrorAs(t, err, &validationErr)
}

func TestHackathonListIsCached(t *testing.T) {
	s, repo := newHackathonService()
	ctx := context.Background()

	_, err := s.Create(ctx, &domain.Hackathon{Name: "AI Jam", Description: "d"})
	require.NoError(t, err)

	first, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A write that bypasses the service is invisible until the TTL or the
	// next invalidating create.
	_, err = repo.Create(ctx, "sneaky", &domain.Hackathon{Name: "Hidden", Description: "d"})
	require.NoError(t, err)

	cached, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	// Creating through the service invalidates the listing.
	_, err = s.Create(ctx, &domain.Hackathon{Name: "Web Week", Description: "d"})
	require.NoError(t, err)

	fresh, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}

func TestRecommendUsesTagOverlap(t *testing.T) {
	s, _ := newHackathonService()
	ctx := context.Background()

	_, err := s.Create(ctx, &domain.Hackathon{Name: "AI Jam", Description: "d", Tags: []string{"ai"}})
	require.NoError(t, err)
	_, err = s.Create(ctx, &domain.Hackathon{Name: "Web Week", Description: "d", Tags: []string{"web"}})
	require.NoError(t, err)

	got, err := s.Recommend(ctx, []string{"ai"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AI Jam", got[0].Name)

	all, err := s.Recommend(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
