package appwrite

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/yourorg/hackconnect/internal/domain"
)

// DocumentStore implements domain.DocumentStore over the Appwrite Databases
// API, scoped to one database id.
type DocumentStore struct {
	client     *Client
	databaseID string
}

// NewDocumentStore wraps a client as the hosted document store.
func NewDocumentStore(client *Client, databaseID string) *DocumentStore {
	return &DocumentStore{client: client, databaseID: databaseID}
}

func (s *DocumentStore) collectionPath(collection string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", s.databaseID, collection)
}

// toDocument splits the flat upstream payload into system fields and
// application data. Upstream keeps its own metadata under $-prefixed keys.
func toDocument(raw map[string]any) *domain.Document {
	doc := &domain.Document{Data: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case "$id":
			doc.ID, _ = v.(string)
		case "$createdAt":
			if ts, ok := v.(string); ok {
				doc.CreatedAt = parseTime(ts)
			}
		case "$updatedAt":
			if ts, ok := v.(string); ok {
				doc.UpdatedAt = parseTime(ts)
			}
		default:
			if !strings.HasPrefix(k, "$") {
				doc.Data[k] = v
			}
		}
	}
	return doc
}

// Create stores a new document under the given id.
func (s *DocumentStore) Create(ctx context.Context, collection, id string, data map[string]any) (*domain.Document, error) {
	body := map[string]any{"documentId": id, "data": data}
	var raw map[string]any
	if err := s.client.do(ctx, "documents.create", http.MethodPost, s.collectionPath(collection), nil, body, &raw); err != nil {
		return nil, err
	}
	return toDocument(raw), nil
}

// Get fetches one document by id.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*domain.Document, error) {
	var raw map[string]any
	if err := s.client.do(ctx, "documents.get", http.MethodGet, s.collectionPath(collection)+"/"+id, nil, nil, &raw); err != nil {
		return nil, err
	}
	return toDocument(raw), nil
}

// Update applies a partial update; attributes not named keep their values.
// Concurrent updates to the same document are last write wins upstream.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, partial map[string]any) (*domain.Document, error) {
	body := map[string]any{"data": partial}
	var raw map[string]any
	if err := s.client.do(ctx, "documents.update", http.MethodPatch, s.collectionPath(collection)+"/"+id, nil, body, &raw); err != nil {
		return nil, err
	}
	return toDocument(raw), nil
}

// Delete removes a document.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	return s.client.do(ctx, "documents.delete", http.MethodDelete, s.collectionPath(collection)+"/"+id, nil, nil, nil)
}

type documentListEnvelope struct {
	Total     int              `json:"total"`
	Documents []map[string]any `json:"documents"`
}

// List returns documents matching the store-side filters.
func (s *DocumentStore) List(ctx context.Context, collection string, queries []domain.Query) ([]*domain.Document, error) {
	var env documentListEnvelope
	if err := s.client.do(ctx, "documents.list", http.MethodGet, s.collectionPath(collection), encodeQueries(queries), nil, &env); err != nil {
		return nil, err
	}
	out := make([]*domain.Document, 0, len(env.Documents))
	for _, raw := range env.Documents {
		out = append(out, toDocument(raw))
	}
	return out, nil
}
