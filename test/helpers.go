package test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yourorg/hackconnect/internal/handler"
	"github.com/yourorg/hackconnect/internal/infrastructure/logger"
	"github.com/yourorg/hackconnect/internal/infrastructure/memstore"
	"github.com/yourorg/hackconnect/internal/repository"
	"github.com/yourorg/hackconnect/internal/security/audit"
	"github.com/yourorg/hackconnect/internal/security/auth"
	"github.com/yourorg/hackconnect/internal/security/middleware"
	"github.com/yourorg/hackconnect/internal/service"
	"github.com/yourorg/hackconnect/pkg/cache"
)

// TestServerHelper runs the full HTTP surface over in-memory stores, the
// same wiring dev mode uses.
type TestServerHelper struct {
	Server     *httptest.Server
	Logger     *slog.Logger
	Identities *memstore.IdentityStore
	Documents  *memstore.DocumentStore
}

func NewTestServer(t *testing.T) *TestServerHelper {
	log := logger.NewLogger("debug")

	identities := memstore.NewIdentityStore()
	documents := memstore.NewDocumentStore()

	profileRepo := repository.NewProfileRepository(documents, "users", log)
	teamRepo := repository.NewTeamRepository(documents, "teams", log)
	hackathonRepo := repository.NewHackathonRepository(documents, "hackathons", log)

	userService := service.NewUserService(identities, profileRepo, log)
	teamService := service.NewTeamService(teamRepo, hackathonRepo, log)
	hackathonService := service.NewHackathonService(hackathonRepo, cache.NewMemory(), log)
	summaryService := service.NewSummaryService("", log)

	tokenManager := auth.NewTokenManager("test-secret", "hackconnect")
	auditLogger := audit.NewLogger(log)

	authHandler := handler.NewAuthHandler(userService, tokenManager, auditLogger, log)
	usersHandler := handler.NewUsersHandler(userService, teamService, log)
	teamsHandler := handler.NewTeamsHandler(teamService, userService, auditLogger, log)
	hackathonsHandler := handler.NewHackathonsHandler(hackathonService, summaryService, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("PUT /api/auth/profile", authHandler.UpdateProfile)
	mux.HandleFunc("POST /api/auth/change-password", authHandler.ChangePassword)
	mux.HandleFunc("GET /api/users/{id}", usersHandler.Get)
	mux.HandleFunc("PUT /api/users/{id}", usersHandler.Update)
	mux.HandleFunc("GET /api/users/{id}/hackathons", usersHandler.Hackathons)
	mux.HandleFunc("POST /api/teams", teamsHandler.Create)
	mux.HandleFunc("POST /api/teams/{$}", teamsHandler.Create)
	mux.HandleFunc("GET /api/teams", teamsHandler.List)
	mux.HandleFunc("GET /api/teams/{$}", teamsHandler.List)
	mux.HandleFunc("GET /api/teams/{id}", teamsHandler.Get)
	mux.HandleFunc("DELETE /api/teams/delete", teamsHandler.Delete)
	mux.HandleFunc("POST /api/teams/leave", teamsHandler.Leave)
	mux.HandleFunc("POST /api/hackathons", hackathonsHandler.Create)
	mux.HandleFunc("POST /api/hackathons/{$}", hackathonsHandler.Create)
	mux.HandleFunc("GET /api/hackathons", hackathonsHandler.List)
	mux.HandleFunc("GET /api/hackathons/{$}", hackathonsHandler.List)
	mux.HandleFunc("GET /api/hackathons/{id}", hackathonsHandler.Get)
	mux.HandleFunc("POST /api/hackathons/recommendations", hackathonsHandler.Recommend)
	mux.HandleFunc("POST /api/hackathons/{id}/summary", hackathonsHandler.Summarize)

	root := middleware.WithRequestID(log)(middleware.OptionalClaims(tokenManager)(mux))
	server := httptest.NewServer(root)
	t.Cleanup(server.Close)

	return &TestServerHelper{
		Server:     server,
		Logger:     log,
		Identities: identities,
		Documents:  documents,
	}
}

func (h *TestServerHelper) URL() string {
	return h.Server.URL
}

// PostJSON sends a JSON body and decodes the JSON response into out (when
// non-nil). The caller owns status-code assertions.
func (h *TestServerHelper) PostJSON(t *testing.T, path string, body any, out any) *http.Response {
	t.Helper()
	return h.doJSON(t, http.MethodPost, path, "", body, out)
}

// PostJSONAs sends a JSON POST carrying a bearer session token.
func (h *TestServerHelper) PostJSONAs(t *testing.T, path, token string, body any, out any) *http.Response {
	t.Helper()
	return h.doJSON(t, http.MethodPost, path, token, body, out)
}

// PutJSON sends a JSON PUT.
func (h *TestServerHelper) PutJSON(t *testing.T, path string, body any, out any) *http.Response {
	t.Helper()
	return h.doJSON(t, http.MethodPut, path, "", body, out)
}

// DeleteJSON sends a JSON DELETE.
func (h *TestServerHelper) DeleteJSON(t *testing.T, path string, body any, out any) *http.Response {
	t.Helper()
	return h.doJSON(t, http.MethodDelete, path, "", body, out)
}

// GetJSON fetches and decodes a JSON response.
func (h *TestServerHelper) GetJSON(t *testing.T, path string, out any) *http.Response {
	t.Helper()
	return h.doJSON(t, http.MethodGet, path, "", nil, out)
}

func (h *TestServerHelper) doJSON(t *testing.T, method, path, token string, body, out any) *http.Response {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, h.URL()+path, reqBody)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp
}

// AssertStatusCode helper function
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}
