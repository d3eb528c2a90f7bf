package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yourorg/hackconnect/internal/domain"
)

// DocumentStore is an in-memory domain.DocumentStore for local development
// and tests. Filtering supports the equal/contains queries the repositories
// actually issue.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*domain.Document

	// FailNextCreate forces the next Create to fail; tests use it to
	// produce the orphaned-identity registration state.
	FailNextCreate error
}

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{collections: make(map[string]map[string]*domain.Document)}
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func copyDocument(doc *domain.Document) *domain.Document {
	return &domain.Document{
		ID:        doc.ID,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		Data:      copyData(doc.Data),
	}
}

func (s *DocumentStore) Create(ctx context.Context, collection, id string, data map[string]any) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailNextCreate != nil {
		err := s.FailNextCreate
		s.FailNextCreate = nil
		return nil, &domain.UpstreamError{Op: "documents.create", Err: err}
	}

	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]*domain.Document)
		s.collections[collection] = col
	}
	if _, exists := col[id]; exists {
		return nil, fmt.Errorf("documents.create: %w", domain.ErrConflict)
	}

	now := time.Now().UTC()
	doc := &domain.Document{ID: id, CreatedAt: now, UpdatedAt: now, Data: copyData(data)}
	col[id] = doc
	return copyDocument(doc), nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("documents.get: %w", domain.ErrNotFound)
	}
	return copyDocument(doc), nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, partial map[string]any) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("documents.update: %w", domain.ErrNotFound)
	}
	for k, v := range partial {
		doc.Data[k] = v
	}
	doc.UpdatedAt = time.Now().UTC()
	return copyDocument(doc), nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[collection]
	if _, ok := col[id]; !ok {
		return fmt.Errorf("documents.delete: %w", domain.ErrNotFound)
	}
	delete(col, id)
	return nil
}

func (s *DocumentStore) List(ctx context.Context, collection string, queries []domain.Query) ([]*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.collections[collection]))
	for id := range s.collections[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*domain.Document
	for _, id := range ids {
		doc := s.collections[collection][id]
		if matchesAll(doc, queries) {
			out = append(out, copyDocument(doc))
		}
	}
	return out, nil
}

func matchesAll(doc *domain.Document, queries []domain.Query) bool {
	for _, q := range queries {
		if !matches(doc, q) {
			return false
		}
	}
	return true
}

func matches(doc *domain.Document, q domain.Query) bool {
	var attr any
	if q.Attribute == "$id" {
		attr = doc.ID
	} else {
		attr = doc.Data[q.Attribute]
	}

	switch q.Method {
	case "equal":
		for _, v := range q.Values {
			if attr == v {
				return true
			}
		}
		return false
	case "contains":
		values := asStrings(attr)
		for _, v := range q.Values {
			want, ok := v.(string)
			if !ok {
				continue
			}
			for _, have := range values {
				if have == want {
					return true
				}
			}
		}
		return false
	default:
		// Unknown filter methods match nothing rather than everything.
		return false
	}
}

func asStrings(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
