package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/observability/metrics"
	"github.com/yourorg/hackconnect/internal/repository"
)

// MinPasswordLength is enforced locally before any identity-store call.
const MinPasswordLength = 8

const defaultRole = "participant"

// UserService implements the profile-sync protocol: it keeps the identity
// record and the profile document presenting as one logical user, and owns
// the failure-mode decisions when the two-step write only half succeeds.
type UserService struct {
	identities domain.IdentityStore
	profiles   *repository.ProfileRepository
	logger     *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(identities domain.IdentityStore, profiles *repository.ProfileRepository, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		identities: identities,
		profiles:   profiles,
		logger:     logger,
	}
}

// Register creates the identity record and then the profile document under
// the same fresh id, strictly in that order (the profile's id is the
// identity's id). A duplicate email maps to ErrConflict and no profile is
// attempted. If the profile write fails after the identity succeeded, the
// identity is NOT rolled back: the caller gets OrphanedIdentityError so the
// partial state is distinguishable from a clean failure.
func (s *UserService) Register(ctx context.Context, email, password, name, username, role string) (*domain.User, error) {
	if email == "" || password == "" || name == "" || username == "" {
		return nil, domain.NewValidationError("email, password, name, and username are required")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.NewValidationError("password must be at least %d characters", MinPasswordLength)
	}
	if role == "" {
		role = defaultRole
	}

	id := uuid.NewString()

	identity, err := s.identities.Create(ctx, id, email, password, name)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.ObserveRegistration("conflict")
			return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		metrics.ObserveRegistration("error")
		return nil, err
	}

	bio := fmt.Sprintf("Hi! I'm %s", name)
	profile, err := s.profiles.Create(ctx, identity.ID, username, role, bio)
	if err != nil {
		// Known inconsistency window: the identity exists, the profile
		// does not. Surfaced, counted, never auto-compensated.
		metrics.ObserveRegistration("orphaned")
		metrics.ObserveOrphanedIdentity()
		s.logger.Error("profile creation failed after identity creation",
			slog.String("account_id", identity.ID),
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, &domain.OrphanedIdentityError{AccountID: identity.ID, Err: err}
	}

	metrics.ObserveRegistration("success")
	s.logger.Info("user registered",
		slog.String("account_id", identity.ID),
		slog.String("username", username),
	)

	// Merge from the two create responses; no third round trip.
	return domain.MergeUser(identity, profile), nil
}

// fetchBoth performs the concurrent two-fetch: identity and profile have no
// ordering dependency, so both round trips run at once.
func (s *UserService) fetchBoth(ctx context.Context, id string) (*domain.Identity, error, *domain.Profile, error) {
	var (
		wg          sync.WaitGroup
		identity    *domain.Identity
		identityErr error
		profile     *domain.Profile
		profileErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		identity, identityErr = s.identities.Get(ctx, id)
	}()
	go func() {
		defer wg.Done()
		profile, profileErr = s.profiles.Get(ctx, id)
	}()
	wg.Wait()

	return identity, identityErr, profile, profileErr
}

// Login verifies that both records exist and returns the merged view. Any
// missing record — invalid id or a half-finished registration — collapses
// to ErrUnauthenticated so consistency state never leaks to callers; the
// log keeps the distinction for operators.
func (s *UserService) Login(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, fmt.Errorf("login: %w", domain.ErrUnauthenticated)
	}

	identity, identityErr, profile, profileErr := s.fetchBoth(ctx, id)
	if identityErr != nil || profileErr != nil {
		if identityErr == nil && errors.Is(profileErr, domain.ErrNotFound) {
			metrics.ObserveOrphanedIdentity()
			s.logger.Warn("login hit orphaned identity",
				slog.String("account_id", id),
			)
		} else {
			s.logger.Info("login failed",
				slog.String("account_id", id),
				slog.Any("identity_error", identityErr),
				slog.Any("profile_error", profileErr),
			)
		}
		return nil, fmt.Errorf("login: %w", domain.ErrUnauthenticated)
	}

	return domain.MergeUser(identity, profile), nil
}

// GetProfile returns the merged view. A 404-class failure from either store
// maps to ErrNotFound; anything else passes through as an upstream failure.
func (s *UserService) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	identity, identityErr, profile, profileErr := s.fetchBoth(ctx, id)

	for _, err := range []error{profileErr, identityErr} {
		if err == nil {
			continue
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get profile %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	return domain.MergeUser(identity, profile), nil
}

// UpdateProfile routes name to the identity store and every other non-nil
// field to one partial document update. When both writes are needed they
// run concurrently and independently: a failure in one never blocks or
// rolls back the other. Failures are collected and logged, and the merged
// view is re-read afterward so the caller sees current state. An empty
// update short-circuits with changed=false and no store call.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, bool, error) {
	if id == "" {
		return nil, false, domain.NewValidationError("user_id is required")
	}
	if update.Empty() {
		return nil, false, nil
	}

	profileUpdate := update
	profileUpdate.Name = nil

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		writeErr []error
	)
	collect := func(err error) {
		mu.Lock()
		writeErr = append(writeErr, err)
		mu.Unlock()
	}

	if update.Name != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.identities.UpdateName(ctx, id, *update.Name); err != nil {
				collect(fmt.Errorf("update name: %w", err))
			}
		}()
	}
	if !profileUpdate.Empty() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.profiles.Update(ctx, id, profileUpdate); err != nil {
				collect(err)
			}
		}()
	}
	wg.Wait()

	for _, err := range writeErr {
		s.logger.Warn("profile update write failed",
			slog.String("account_id", id),
			slog.String("error", err.Error()),
		)
	}

	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, true, err
	}
	return user, true, nil
}

// ChangePassword validates the minimum-length policy locally, then issues
// the single identity-store password update.
func (s *UserService) ChangePassword(ctx context.Context, id, newPassword string) error {
	if id == "" {
		return domain.NewValidationError("user_id is required")
	}
	if len(newPassword) < MinPasswordLength {
		return domain.NewValidationError("password must be at least %d characters", MinPasswordLength)
	}
	if err := s.identities.UpdatePassword(ctx, id, newPassword); err != nil {
		return err
	}
	s.logger.Info("password changed", slog.String("account_id", id))
	return nil
}
