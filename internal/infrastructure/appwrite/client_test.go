package appwrite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yourorg/hackconnect/internal/domain"
)

func newFakeServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, "proj-1", "key-1", nil)
}

func TestClientSendsProjectHeaders(t *testing.T) {
	var gotProject, gotKey string
	_, client := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotProject = r.Header.Get("X-Appwrite-Project")
		gotKey = r.Header.Get("X-Appwrite-Key")
		json.NewEncoder(w).Encode(map[string]any{"$id": "u1"})
	})

	store := NewIdentityStore(client)
	if _, err := store.Get(context.Background(), "u1"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gotProject != "proj-1" || gotKey != "key-1" {
		t.Fatalf("missing auth headers: project=%q key=%q", gotProject, gotKey)
	}
}

func TestIdentityCreateConflict(t *testing.T) {
	_, client := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "A user with the same email already exists",
			"code":    409,
			"type":    "user_already_exists",
		})
	})

	store := NewIdentityStore(client)
	_, err := store.Create(context.Background(), "u1", "a@example.com", "Password123", "A")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDocumentGetNotFound(t *testing.T) {
	_, client := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"message": "Document not found", "code": 404})
	})

	store := NewDocumentStore(client, "db1")
	_, err := store.Get(context.Background(), "users", "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpstreamErrorIsOpaque(t *testing.T) {
	_, client := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"message": "boom", "code": 500})
	})

	store := NewDocumentStore(client, "db1")
	_, err := store.Get(context.Background(), "users", "u1")

	var upstreamErr *domain.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if upstreamErr.Op != "documents.get" {
		t.Fatalf("unexpected op label: %q", upstreamErr.Op)
	}
}

func TestDocumentCreateBodyShape(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	_, client := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"$id":        "t1",
			"$createdAt": "2026-08-01T10:00:00.000Z",
			"name":       "Byte Bandits",
		})
	})

	store := NewDocumentStore(client, "db1")
	doc, err := store.Create(context.Background(), "teams", "t1", map[string]any{"name": "Byte Bandits"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if gotPath != "/databases/db1/collections/teams/documents" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotBody["documentId"] != "t1" {
		t.Fatalf("expected documentId in body, got %v", gotBody)
	}
	if _, ok := gotBody["data"].(map[string]any); !ok {
		t.Fatalf("expected data envelope in body, got %v", gotBody)
	}
	if doc.ID != "t1" || doc.Data["name"] != "Byte Bandits" {
		t.Fatalf("decoded document wrong: %+v", doc)
	}
	if _, leaked := doc.Data["$id"]; leaked {
		t.Fatalf("system keys must not leak into data")
	}
	if doc.CreatedAt.IsZero() {
		t.Fatalf("expected parsed created timestamp")
	}
}

func TestDocumentListEncodesQueries(t *testing.T) {
	var gotQueries []string
	_, client := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQueries = r.URL.Query()["queries[]"]
		json.NewEncoder(w).Encode(map[string]any{
			"total": 1,
			"documents": []map[string]any{
				{"$id": "t1", "hackathon_id": "h1"},
			},
		})
	})

	store := NewDocumentStore(client, "db1")
	docs, err := store.List(context.Background(), "teams", []domain.Query{
		domain.QueryEqual("hackathon_id", "h1"),
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "t1" {
		t.Fatalf("unexpected documents: %+v", docs)
	}

	if len(gotQueries) != 1 {
		t.Fatalf("expected one encoded query, got %v", gotQueries)
	}
	var q map[string]any
	if err := json.Unmarshal([]byte(gotQueries[0]), &q); err != nil {
		t.Fatalf("query not valid JSON: %v", err)
	}
	if q["method"] != "equal" || q["attribute"] != "hackathon_id" {
		t.Fatalf("unexpected query payload: %v", q)
	}
}

func TestIdentityListEncodesNumericPaging(t *testing.T) {
	var gotQueries []string
	_, client := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQueries = r.URL.Query()["queries[]"]
		json.NewEncoder(w).Encode(map[string]any{"total": 0, "users": []any{}})
	})

	store := NewIdentityStore(client)
	if _, err := store.List(context.Background(), 100, 200); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(gotQueries) != 2 {
		t.Fatalf("expected limit and offset queries, got %v", gotQueries)
	}
	for i, want := range []float64{100, 200} {
		var q struct {
			Method string `json:"method"`
			Values []any  `json:"values"`
		}
		if err := json.Unmarshal([]byte(gotQueries[i]), &q); err != nil {
			t.Fatalf("query not valid JSON: %v", err)
		}
		// JSON numbers, not quoted strings
		if len(q.Values) != 1 || q.Values[0] != want {
			t.Fatalf("%s: expected numeric value %v, got %v", q.Method, want, q.Values)
		}
	}
}
