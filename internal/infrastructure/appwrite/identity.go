package appwrite

import (
	"context"
	"net/http"

	"github.com/yourorg/hackconnect/internal/domain"
)

// IdentityStore implements domain.IdentityStore over the Appwrite Users API.
type IdentityStore struct {
	client *Client
}

// NewIdentityStore wraps a client as the hosted identity store.
func NewIdentityStore(client *Client) *IdentityStore {
	return &IdentityStore{client: client}
}

type identityEnvelope struct {
	ID        string `json:"$id"`
	CreatedAt string `json:"$createdAt"`
	UpdatedAt string `json:"$updatedAt"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

func (e *identityEnvelope) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:        e.ID,
		Email:     e.Email,
		Name:      e.Name,
		CreatedAt: parseTime(e.CreatedAt),
		UpdatedAt: parseTime(e.UpdatedAt),
	}
}

// Create registers a new account. A duplicate email surfaces as
// domain.ErrConflict via the client's error mapping.
func (s *IdentityStore) Create(ctx context.Context, id, email, password, name string) (*domain.Identity, error) {
	body := map[string]string{
		"userId":   id,
		"email":    email,
		"password": password,
		"name":     name,
	}
	var env identityEnvelope
	if err := s.client.do(ctx, "identity.create", http.MethodPost, "/users", nil, body, &env); err != nil {
		return nil, err
	}
	return env.toDomain(), nil
}

// Get fetches one account record.
func (s *IdentityStore) Get(ctx context.Context, id string) (*domain.Identity, error) {
	var env identityEnvelope
	if err := s.client.do(ctx, "identity.get", http.MethodGet, "/users/"+id, nil, nil, &env); err != nil {
		return nil, err
	}
	return env.toDomain(), nil
}

// UpdateName renames the account.
func (s *IdentityStore) UpdateName(ctx context.Context, id, name string) (*domain.Identity, error) {
	var env identityEnvelope
	body := map[string]string{"name": name}
	if err := s.client.do(ctx, "identity.update_name", http.MethodPatch, "/users/"+id+"/name", nil, body, &env); err != nil {
		return nil, err
	}
	return env.toDomain(), nil
}

// UpdatePassword replaces the account password. Policy checks (minimum
// length) happen in the service before this call.
func (s *IdentityStore) UpdatePassword(ctx context.Context, id, password string) error {
	body := map[string]string{"password": password}
	return s.client.do(ctx, "identity.update_password", http.MethodPatch, "/users/"+id+"/password", nil, body, nil)
}

type identityListEnvelope struct {
	Total int                 `json:"total"`
	Users []*identityEnvelope `json:"users"`
}

// List pages through account records; used by the consistency worker only.
func (s *IdentityStore) List(ctx context.Context, limit, offset int) ([]*domain.Identity, error) {
	// limit/offset take numeric values in the query syntax, not strings.
	queries := []domain.Query{
		{Method: "limit", Values: []any{limit}},
		{Method: "offset", Values: []any{offset}},
	}
	var env identityListEnvelope
	if err := s.client.do(ctx, "identity.list", http.MethodGet, "/users", encodeQueries(queries), nil, &env); err != nil {
		return nil, err
	}
	out := make([]*domain.Identity, 0, len(env.Users))
	for _, u := range env.Users {
		out = append(out, u.toDomain())
	}
	return out, nil
}
