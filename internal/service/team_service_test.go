package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/infrastructure/memstore"
	"github.com/yourorg/hackconnect/internal/repository"
)

type teamFixture struct {
	documents  *memstore.DocumentStore
	hackathons *repository.HackathonRepository
	service    *TeamService
}

func newTeamFixture() *teamFixture {
	documents := memstore.NewDocumentStore()
	teams := repository.NewTeamRepository(documents, "teams", nil)
	hackathons := repository.NewHackathonRepository(documents, "hackathons", nil)
	return &teamFixture{
		documents:  documents,
		hackathons: hackathons,
		service:    NewTeamService(teams, hackathons, nil),
	}
}

func TestCreateTeamNormalizesRoster(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()

	created, err := f.service.CreateTeam(ctx, &domain.Team{
		Name:        "Byte Bandits",
		HackathonID: "h1",
		LeaderID:    "u1",
		Members:     []string{"u2", "u2", "u3", ""},
	})
	require.NoError(t, err)

	// Leader appended, duplicates and empties dropped
	assert.Equal(t, []string{"u2", "u3", "u1"}, created.Members)
	assert.Equal(t, domain.TeamStatusOpen, created.Status)
	assert.True(t, created.HasMember("u1"))
}

func TestCreateTeamLeaderAlreadyListed(t *testing.T) {
	f := newTeamFixture()

	created, err := f.service.CreateTeam(context.Background(), &domain.Team{
		Name:        "Solo",
		HackathonID: "h1",
		LeaderID:    "u1",
		Members:     []string{"u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, created.Members)
}

func TestCreateTeamValidation(t *testing.T) {
	f := newTeamFixture()

	var validationErr *domain.ValidationError
	_, err := f.service.CreateTeam(context.Background(), &domain.Team{Name: "incomplete"})
	require.ErrorAs(t, err, &validationErr)
}

func TestDeleteTeamLeaderOnly(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()

	created, err := f.service.CreateTeam(ctx, &domain.Team{
		Name:        "Guarded",
		HackathonID: "h1",
		LeaderID:    "leader",
		Members:     []string{"member"},
	})
	require.NoError(t, err)

	err = f.service.DeleteTeam(ctx, created.ID, "member")
	require.ErrorIs(t, err, domain.ErrForbidden)

	// The denied attempt left the document untouched.
	team, err := f.service.GetTeam(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, team.Members, 2)

	require.NoError(t, f.service.DeleteTeam(ctx, created.ID, "leader"))
	_, err = f.service.GetTeam(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLeaveTeamMemberLeaves(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()

	created, err := f.service.CreateTeam(ctx, &domain.Team{
		Name:        "Roster",
		HackathonID: "h1",
		LeaderID:    "leader",
		Members:     []string{"member"},
	})
	require.NoError(t, err)

	result, err := f.service.LeaveTeam(ctx, created.ID, "member")
	require.NoError(t, err)
	assert.Equal(t, LeaveResultLeft, result)

	team, err := f.service.GetTeam(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"leader"}, team.Members)
}

func TestLeaveTeamLeaderDisbands(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()

	created, err := f.service.CreateTeam(ctx, &domain.Team{
		Name:        "Doomed",
		HackathonID: "h1",
		LeaderID:    "leader",
		Members:     []string{"m1", "m2"},
	})
	require.NoError(t, err)

	result, err := f.service.LeaveTeam(ctx, created.ID, "leader")
	require.NoError(t, err)
	assert.Equal(t, LeaveResultDisbanded, result)

	// No promotion: the whole team is gone.
	_, err = f.service.GetTeam(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLeaveTeamNotMember(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()

	created, err := f.service.CreateTeam(ctx, &domain.Team{
		Name:        "Closed Circle",
		HackathonID: "h1",
		LeaderID:    "leader",
	})
	require.NoError(t, err)

	_, err = f.service.LeaveTeam(ctx, created.ID, "stranger")
	require.ErrorIs(t, err, domain.ErrNotMember)
}

func TestListTeamsRequiresHackathon(t *testing.T) {
	f := newTeamFixture()

	var validationErr *domain.ValidationError
	_, err := f.service.ListTeams(context.Background(), "")
	require.ErrorAs(t, err, &validationErr)
}

func TestGetUserHackathons(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()

	_, err := f.hackathons.Create(ctx, "h1", &domain.Hackathon{Name: "AI Jam", Description: "d"})
	require.NoError(t, err)
	_, err = f.hackathons.Create(ctx, "h2", &domain.Hackathon{Name: "Web Week", Description: "d"})
	require.NoError(t, err)

	team1, err := f.service.CreateTeam(ctx, &domain.Team{Name: "A", HackathonID: "h1", LeaderID: "u1"})
	require.NoError(t, err)
	_, err = f.service.CreateTeam(ctx, &domain.Team{Name: "B", HackathonID: "h2", LeaderID: "u2", Members: []string{"u1"}})
	require.NoError(t, err)

	entries, err := f.service.GetUserHackathons(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byID := make(map[string]UserHackathon, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	assert.Equal(t, team1.ID, byID["h1"].MyTeam.ID)
	assert.Equal(t, "Web Week", byID["h2"].Name)
	assert.True(t, byID["h2"].MyTeam.HasMember("u1"))
}

func TestGetUserHackathonsNoTeams(t *testing.T) {
	f := newTeamFixture()

	entries, err := f.service.GetUserHackathons(context.Background(), "loner")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetUserHackathonsLastTeamWins(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()

	_, err := f.hackathons.Create(ctx, "h1", &domain.Hackathon{Name: "AI Jam", Description: "d"})
	require.NoError(t, err)

	// The same user in two teams for one hackathon is not supposed to
	// happen, but the map keeps exactly one entry when it does.
	_, err = f.service.CreateTeam(ctx, &domain.Team{Name: "First", HackathonID: "h1", LeaderID: "u1"})
	require.NoError(t, err)
	_, err = f.service.CreateTeam(ctx, &domain.Team{Name: "Second", HackathonID: "h1", LeaderID: "u2", Members: []string{"u1"}})
	require.NoError(t, err)

	entries, err := f.service.GetUserHackathons(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].MyTeam)
}
