package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourorg/hackconnect/internal/chat"
	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/handler"
	"github.com/yourorg/hackconnect/internal/infrastructure/appwrite"
	"github.com/yourorg/hackconnect/internal/infrastructure/logger"
	"github.com/yourorg/hackconnect/internal/infrastructure/memstore"
	redisinfra "github.com/yourorg/hackconnect/internal/infrastructure/redis"
	"github.com/yourorg/hackconnect/internal/observability/metrics"
	"github.com/yourorg/hackconnect/internal/observability/tracing"
	"github.com/yourorg/hackconnect/internal/repository"
	"github.com/yourorg/hackconnect/internal/security/audit"
	"github.com/yourorg/hackconnect/internal/security/auth"
	"github.com/yourorg/hackconnect/internal/security/middleware"
	"github.com/yourorg/hackconnect/internal/security/ratelimit"
	"github.com/yourorg/hackconnect/internal/service"
	"github.com/yourorg/hackconnect/internal/worker"
	"github.com/yourorg/hackconnect/pkg/cache"
	"github.com/yourorg/hackconnect/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting HackConnect server",
		slog.String("environment", cfg.Environment),
		slog.Bool("dev_mode", cfg.DevMode()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op unless an OTLP endpoint is configured)
	shutdownTracing, err := tracing.Init(ctx, log, "hackconnect", cfg.Environment)
	if err != nil {
		log.Warn("tracing disabled", slog.String("error", err.Error()))
		shutdownTracing = func(context.Context) error { return nil }
	}

	// 4. Initialize stores: hosted BaaS, or in-memory in dev mode
	var identities domain.IdentityStore
	var documents domain.DocumentStore
	if cfg.DevMode() {
		log.Warn("APPWRITE_ENDPOINT not set, running on in-memory stores")
		identities = memstore.NewIdentityStore()
		documents = memstore.NewDocumentStore()
	} else {
		client := appwrite.NewClient(cfg.AppwriteEndpoint, cfg.AppwriteProjectID, cfg.AppwriteAPIKey, log)
		identities = appwrite.NewIdentityStore(client)
		documents = appwrite.NewDocumentStore(client, cfg.AppwriteDatabase)
	}

	// 5. Initialize cache: shared Redis when configured, else in-process
	var listingCache cache.Cache
	var redisClient *redisinfra.Client
	if cfg.RedisURL != "" {
		redisClient, err = redisinfra.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		listingCache = cache.NewRedis(redisClient, "hackconnect")
	} else {
		listingCache = cache.NewMemory()
	}

	// 6. Initialize repositories
	profileRepo := repository.NewProfileRepository(documents, cfg.CollectionUsers, log)
	teamRepo := repository.NewTeamRepository(documents, cfg.CollectionTeams, log)
	hackathonRepo := repository.NewHackathonRepository(documents, cfg.CollectionHackathons, log)

	// 7. Initialize services
	userService := service.NewUserService(identities, profileRepo, log)
	teamService := service.NewTeamService(teamRepo, hackathonRepo, log)
	hackathonService := service.NewHackathonService(hackathonRepo, listingCache, log)
	summaryService := service.NewSummaryService(cfg.GeminiAPIKey, log)

	// 8. Initialize security components
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "hackconnect")
	rateLimiter := ratelimit.NewLimiter(100, time.Minute)
	auditLogger := audit.NewLogger(log)

	// 9. Initialize handlers
	chatHub := chat.NewHub(log)
	authHandler := handler.NewAuthHandler(userService, tokenManager, auditLogger, log)
	usersHandler := handler.NewUsersHandler(userService, teamService, log)
	teamsHandler := handler.NewTeamsHandler(teamService, userService, auditLogger, log)
	hackathonsHandler := handler.NewHackathonsHandler(hackathonService, summaryService, log)
	chatHandler := handler.NewChatHandler(chatHub, teamService, userService, cfg.CORSAllowedOrigins, log)
	healthHandler := handler.NewHealthHandler(identities, redisClient, cfg.Environment, log)

	// 10. Setup HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", healthHandler.Status)
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("PUT /api/auth/profile", authHandler.UpdateProfile)
	mux.HandleFunc("POST /api/auth/change-password", authHandler.ChangePassword)

	mux.HandleFunc("GET /api/users/{id}", usersHandler.Get)
	mux.HandleFunc("PUT /api/users/{id}", usersHandler.Update)
	mux.HandleFunc("GET /api/users/{id}/hackathons", usersHandler.Hackathons)

	// The frontend calls the collection routes with a trailing slash;
	// {$} keeps the slash form from swallowing deeper paths.
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

	mux.Handle("GET /ws/teams/{id}/chat", chatHandler)

	// Chain middleware: request ID -> CORS -> content type -> optional
	// claims -> auth rate limit -> metrics
	rootHandler := middleware.WithRequestID(log)(
		middleware.CORS(cfg.CORSAllowedOrigins)(
			middleware.ValidateJSONContentType(log)(
				middleware.OptionalClaims(tokenManager)(
					middleware.RateLimitAuth(rateLimiter, log)(
						metrics.HTTPMetricsMiddleware(mux),
					),
				),
			),
		),
	)

	// 11. Start consistency worker in background
	consistencyWorker := worker.NewConsistencyWorker(
		identities,
		profileRepo,
		log,
		time.Duration(cfg.ConsistencyScanIntervalMinutes)*time.Minute,
	)
	go consistencyWorker.Start(ctx)

	// 12. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting", slog.Int("port", cfg.ServerPort))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel()
	rateLimiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}
