package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/hackconnect/internal/domain"
)

type identityRecord struct {
	identity     domain.Identity
	passwordHash []byte
}

// IdentityStore is an in-memory domain.IdentityStore for local development
// and tests. It enforces the same contract as the hosted store: unique
// emails, ErrNotFound on missing ids. Passwords are bcrypt-hashed so dev
// mode never holds plaintext.
type IdentityStore struct {
	mu      sync.RWMutex
	byID    map[string]*identityRecord
	byEmail map[string]string

	// FailCreate forces the next Create to fail; tests use it to exercise
	// upstream failure paths.
	FailCreate error
}

// NewIdentityStore creates an empty in-memory identity store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		byID:    make(map[string]*identityRecord),
		byEmail: make(map[string]string),
	}
}

func (s *IdentityStore) Create(ctx context.Context, id, email, password, name string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCreate != nil {
		err := s.FailCreate
		s.FailCreate = nil
		return nil, &domain.UpstreamError{Op: "identity.create", Err: err}
	}

	key := strings.ToLower(email)
	if _, taken := s.byEmail[key]; taken {
		return nil, fmt.Errorf("identity.create: %w", domain.ErrConflict)
	}
	if _, exists := s.byID[id]; exists {
		return nil, fmt.Errorf("identity.create: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "identity.create", Err: err}
	}

	now := time.Now().UTC()
	rec := &identityRecord{
		identity: domain.Identity{
			ID:        id,
			Email:     email,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: hash,
	}
	s.byID[id] = rec
	s.byEmail[key] = id

	out := rec.identity
	return &out, nil
}

func (s *IdentityStore) Get(ctx context.Context, id string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("identity.get: %w", domain.ErrNotFound)
	}
	out := rec.identity
	return &out, nil
}

func (s *IdentityStore) UpdateName(ctx context.Context, id, name string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("identity.update_name: %w", domain.ErrNotFound)
	}
	rec.identity.Name = name
	rec.identity.UpdatedAt = time.Now().UTC()
	out := rec.identity
	return &out, nil
}

func (s *IdentityStore) UpdatePassword(ctx context.Context, id, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("identity.update_password: %w", domain.ErrNotFound)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return &domain.UpstreamError{Op: "identity.update_password", Err: err}
	}
	rec.passwordHash = hash
	rec.identity.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *IdentityStore) List(ctx context.Context, limit, offset int) ([]*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if offset >= len(ids) {
		return nil, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}

	out := make([]*domain.Identity, 0, end-offset)
	for _, id := range ids[offset:end] {
		identity := s.byID[id].identity
		out = append(out, &identity)
	}
	return out, nil
}

// VerifyPassword checks a password against the stored hash. Not part of
// domain.IdentityStore; the hosted store does its own verification.
func (s *IdentityStore) VerifyPassword(id, password string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("identity.verify: %w", domain.ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return fmt.Errorf("identity.verify: %w", domain.ErrUnauthenticated)
	}
	return nil
}
