package domain

import (
	"context"
	"time"
)

// Identity is the authentication-service record for an account. The password
// is write-only; the store never returns it.
type Identity struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the application-data document for a user. Its document id always
// equals the identity id; a profile without an identity (or the reverse) is a
// corruption state, not something this system repairs.
type Profile struct {
	ID              string
	Username        string
	Role            string
	Bio             string
	AvatarURL       string
	GithubURL       string
	PortfolioURL    string
	Skills          []string
	TechStack       []string
	XP              int
	ReputationScore float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// User is the merged read-only view returned across the API boundary:
// email and name come from the identity record, everything else from the
// profile document. It is never persisted.
type User struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Username        string    `json:"username"`
	Role            string    `json:"role"`
	Bio             string    `json:"bio"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	GithubURL       string    `json:"github_url,omitempty"`
	PortfolioURL    string    `json:"portfolio_url,omitempty"`
	Skills          []string  `json:"skills"`
	TechStack       []string  `json:"tech_stack"`
	XP              int       `json:"xp"`
	ReputationScore float64   `json:"reputation_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MergeUser builds the logical user view from its two source records.
func MergeUser(identity *Identity, profile *Profile) *User {
	return &User{
		ID:              profile.ID,
		AccountID:       profile.ID,
		Email:           identity.Email,
		Name:            identity.Name,
		Username:        profile.Username,
		Role:            profile.Role,
		Bio:             profile.Bio,
		AvatarURL:       profile.AvatarURL,
		GithubURL:       profile.GithubURL,
		PortfolioURL:    profile.PortfolioURL,
		Skills:          profile.Skills,
		TechStack:       profile.TechStack,
		XP:              profile.XP,
		ReputationScore: profile.ReputationScore,
		CreatedAt:       profile.CreatedAt,
		UpdatedAt:       profile.UpdatedAt,
	}
}

// ProfileUpdate is a sparse set of profile fields. Nil means "leave alone".
// Name routes to the identity store; everything else goes to the profile
// document in a single partial update.
type ProfileUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Bio          *string  `json:"bio,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	TechStack    []string `json:"tech_stack,omitempty"`
	GithubURL    *string  `json:"github_url,omitempty"`
	PortfolioURL *string  `json:"portfolio_url,omitempty"`
	AvatarURL    *string  `json:"avatar_url,omitempty"`
}

// Empty reports whether the update carries no changes at all.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Bio == nil && u.Skills == nil && u.TechStack == nil &&
		u.GithubURL == nil && u.PortfolioURL == nil && u.AvatarURL == nil
}

// IdentityStore is the narrow interface this system needs from the hosted
// auth service. Implementations must map a duplicate-email condition to
// ErrConflict and a missing account to ErrNotFound.
type IdentityStore interface {
	Create(ctx context.Context, id, email, password, name string) (*Identity, error)
	Get(ctx context.Context, id string) (*Identity, error)
	UpdateName(ctx context.Context, id, name string) (*Identity, error)
	UpdatePassword(ctx context.Context, id, password string) error
	List(ctx context.Context, limit, offset int) ([]*Identity, error)
}

// Document is a raw document-store record: server-assigned timestamps plus
// the application payload.
type Document struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      map[string]any
}

// DocumentStore is the narrow interface over the hosted document database.
// Implementations must map a missing document to ErrNotFound and a
// duplicate id to ErrConflict.
type DocumentStore interface {
	Create(ctx context.Context, collection, id string, data map[string]any) (*Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Update(ctx context.Context, collection, id string, partial map[string]any) (*Document, error)
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string, queries []Query) ([]*Document, error)
}

// Query is a store-side filter for DocumentStore.List.
type Query struct {
	Method    string
	Attribute string
	Values    []any
}

// QueryEqual matches documents whose attribute equals any of the values.
func QueryEqual(attribute string, values ...any) Query {
	return Query{Method: "equal", Attribute: attribute, Values: values}
}

// QueryContains matches documents whose array attribute contains the value.
func QueryContains(attribute string, value any) Query {
	return Query{Method: "contains", Attribute: attribute, Values: []any{value}}
}
