package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/observability/metrics"
	"github.com/yourorg/hackconnect/internal/repository"
)

// LeaveResult reports which roster rule fired when a member left.
type LeaveResult string

const (
	LeaveResultLeft      LeaveResult = "left"
	LeaveResultDisbanded LeaveResult = "disbanded"
)

// UserHackathon pairs a hackathon with the caller's team in it.
type UserHackathon struct {
	domain.Hackathon
	MyTeam *domain.Team `json:"my_team"`
}

// TeamService enforces the roster invariants: the leader is always a
// member, rosters have no duplicates, and an empty team does not exist.
type TeamService struct {
	teams      *repository.TeamRepository
	hackathons *repository.HackathonRepository
	logger     *slog.Logger
}

// NewTeamService creates a new team service.
func NewTeamService(teams *repository.TeamRepository, hackathons *repository.HackathonRepository, logger *slog.Logger) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamService{
		teams:      teams,
		hackathons: hackathons,
		logger:     logger,
	}
}

// CreateTeam persists a new team, normalizing the roster so the leader is
// always a member and no id appears twice. Whether leader_id or
// hackathon_id refer to real entities is not checked here.
func (s *TeamService) CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	if team.Name == "" || team.HackathonID == "" || team.LeaderID == "" {
		return nil, domain.NewValidationError("name, hackathon_id, and leader_id are required")
	}
	if team.Status == "" {
		team.Status = domain.TeamStatusOpen
	}
	team.Members = normalizeRoster(team.LeaderID, team.Members)

	created, err := s.teams.Create(ctx, uuid.NewString(), team)
	if err != nil {
		return nil, err
	}
	s.logger.Info("team created",
		slog.String("team_id", created.ID),
		slog.String("leader_id", created.LeaderID),
		slog.Int("members", len(created.Members)),
	)
	return created, nil
}

// normalizeRoster dedupes the member list and guarantees the leader is on it.
func normalizeRoster(leaderID string, members []string) []string {
	seen := make(map[string]struct{}, len(members)+1)
	out := make([]string, 0, len(members)+1)
	for _, m := range members {
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	if _, ok := seen[leaderID]; !ok {
		out = append(out, leaderID)
	}
	return out
}

// GetTeam fetches one team.
func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	return s.teams.Get(ctx, teamID)
}

// ListTeams returns the teams for one hackathon.
func (s *TeamService) ListTeams(ctx context.Context, hackathonID string) ([]*domain.Team, error) {
	if hackathonID == "" {
		return nil, domain.NewValidationError("hackathon_id is required")
	}
	return s.teams.ListByHackathon(ctx, hackathonID)
}

// DeleteTeam removes a team. Only the leader may do this; anyone else gets
// ErrForbidden and the document is left untouched.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID, requesterID string) error {
	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LeaderID != requesterID {
		return fmt.Errorf("only the leader can delete team %s: %w", teamID, domain.ErrForbidden)
	}
	if err := s.teams.Delete(ctx, teamID); err != nil {
		return err
	}
	s.logger.Info("team deleted",
		slog.String("team_id", teamID),
		slog.String("leader_id", requesterID),
	)
	return nil
}

// LeaveTeam removes the user from the roster. A departing leader disbands
// the team entirely: the document is deleted and no new leader is promoted.
// Remaining members learn of the disband only by their next read; no event
// is pushed. The policy lives in this one method so it can be swapped
// without touching callers.
func (s *TeamService) LeaveTeam(ctx context.Context, teamID, userID string) (LeaveResult, error) {
	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return "", err
	}
	if !team.HasMember(userID) {
		return "", fmt.Errorf("user %s is not in team %s: %w", userID, teamID, domain.ErrNotMember)
	}

	if userID == team.LeaderID {
		if err := s.teams.Delete(ctx, teamID); err != nil {
			return "", err
		}
		metrics.ObserveDisband()
		s.logger.Info("leader left, team disbanded",
			slog.String("team_id", teamID),
			slog.String("leader_id", userID),
			slog.Int("severed_members", len(team.Members)-1),
		)
		return LeaveResultDisbanded, nil
	}

	remaining := make([]string, 0, len(team.Members)-1)
	for _, m := range team.Members {
		if m != userID {
			remaining = append(remaining, m)
		}
	}
	if _, err := s.teams.UpdateMembers(ctx, teamID, remaining); err != nil {
		return "", err
	}
	s.logger.Info("member left team",
		slog.String("team_id", teamID),
		slog.String("user_id", userID),
	)
	return LeaveResultLeft, nil
}

// GetUserHackathons finds every team the user belongs to, keeps one team
// per hackathon (when a user is somehow in two teams for the same
// hackathon, the later result wins the slot), then fetches all the
// hackathons in one filtered call and zips them together.
func (s *TeamService) GetUserHackathons(ctx context.Context, userID string) ([]UserHackathon, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id is required")
	}

	teams, err := s.teams.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return []UserHackathon{}, nil
	}

	teamByHackathon := make(map[string]*domain.Team, len(teams))
	ids := make([]string, 0, len(teams))
	for _, team := range teams {
		if _, seen := teamByHackathon[team.HackathonID]; !seen {
			ids = append(ids, team.HackathonID)
		}
		teamByHackathon[team.HackathonID] = team
	}

	hackathons, err := s.hackathons.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]UserHackathon, 0, len(hackathons))
	for _, h := range hackathons {
		out = append(out, UserHackathon{
			Hackathon: *h,
			MyTeam:    teamByHackathon[h.ID],
		})
	}
	return out, nil
}
