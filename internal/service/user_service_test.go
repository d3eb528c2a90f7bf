package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/infrastructure/memstore"
	"github.com/yourorg/hackconnect/internal/repository"
)

type userFixture struct {
	identities *memstore.IdentityStore
	documents  *memstore.DocumentStore
	service    *UserService
}

func newUserFixture() *userFixture {
	identities := memstore.NewIdentityStore()
	documents := memstore.NewDocumentStore()
	profiles := repository.NewProfileRepository(documents, "users", nil)
	return &userFixture{
		identities: identities,
		documents:  documents,
		service:    NewUserService(identities, profiles, nil),
	}
}

func TestRegisterThenLogin(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	user, err := f.service.Register(ctx, "alice@example.com", "Password123", "Alice", "alice", "")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "participant", user.Role)
	assert.Equal(t, "Hi! I'm Alice", user.Bio)

	logged, err := f.service.Login(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Equal(t, user.Email, logged.Email)
	assert.Equal(t, user.Username, logged.Username)
}

func TestRegisterValidation(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	var validationErr *domain.ValidationError

	_, err := f.service.Register(ctx, "", "Password123", "Alice", "alice", "")
	require.ErrorAs(t, err, &validationErr)

	_, err = f.service.Register(ctx, "a@example.com", "short", "Alice", "alice", "")
	require.ErrorAs(t, err, &validationErr)

	// Nothing reached the stores
	docs, _ := f.documents.List(ctx, "users", nil)
	assert.Empty(t, docs)
}

func TestRegisterDuplicateEmailLeavesNoProfile(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	_, err := f.service.Register(ctx, "bob@example.com", "Password123", "Bob", "bob", "")
	require.NoError(t, err)

	_, err = f.service.Register(ctx, "bob@example.com", "Password123", "Bobby", "bobby", "")
	require.ErrorIs(t, err, domain.ErrConflict)

	// The failed attempt must not have written a second profile document.
	docs, err := f.documents.List(ctx, "users", nil)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestRegisterOrphanedIdentity(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	f.documents.FailNextCreate = errors.New("document store down")

	_, err := f.service.Register(ctx, "carol@example.com", "Password123", "Carol", "carol", "")

	var orphanErr *domain.OrphanedIdentityError
	require.ErrorAs(t, err, &orphanErr)
	require.NotEmpty(t, orphanErr.AccountID)

	// The identity record survives; there is no rollback.
	_, err = f.identities.Get(ctx, orphanErr.AccountID)
	require.NoError(t, err)

	// A login against the half-registered account collapses to 401 territory.
	_, err = f.service.Login(ctx, orphanErr.AccountID)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestLoginUnknownID(t *testing.T) {
	f := newUserFixture()

	_, err := f.service.Login(context.Background(), "no-such-id")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.service.Login(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestGetProfileNotFound(t *testing.T) {
	f := newUserFixture()

	_, err := f.service.GetProfile(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProfileRoutesNameToIdentity(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	user, err := f.service.Register(ctx, "dan@example.com", "Password123", "Dan", "dan", "")
	require.NoError(t, err)

	name := "Daniel"
	bio := "Building things"
	updated, changed, err := f.service.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{
		Name:   &name,
		Bio:    &bio,
		Skills: []string{"go", "react"},
	})
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, "Daniel", updated.Name)
	assert.Equal(t, "Building things", updated.Bio)
	assert.Len(t, updated.Skills, 2)

	// The identity store saw the rename directly.
	identity, err := f.identities.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Daniel", identity.Name)
}

func TestUpdateProfileEmptyShortCircuits(t *testing.T) {
	f := newUserFixture()

	user, changed, err := f.service.UpdateProfile(context.Background(), "any-id", domain.ProfileUpdate{})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Nil(t, user)
}

func TestChangePassword(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	user, err := f.service.Register(ctx, "eve@example.com", "OldPass123", "Eve", "eve", "")
	require.NoError(t, err)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, f.service.ChangePassword(ctx, user.ID, "short"), &validationErr)

	require.NoError(t, f.service.ChangePassword(ctx, user.ID, "NewPass123"))
	require.NoError(t, f.identities.VerifyPassword(user.ID, "NewPass123"))
	assert.Error(t, f.identities.VerifyPassword(user.ID, "OldPass123"))
}
