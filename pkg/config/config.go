package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment string
	ServerPort  int
	LogLevel    string

	// Hosted BaaS (identity + document stores). When Endpoint is empty the
	// server runs in dev mode on in-memory stores.
	AppwriteEndpoint  string
	AppwriteProjectID string
	AppwriteAPIKey    string
	AppwriteDatabase  string

	CollectionHackathons string
	CollectionUsers      string
	CollectionTeams      string

	RedisURL           string // optional; in-memory cache when empty
	JWTSecret          string
	GeminiAPIKey       string // optional; summaries disabled when empty
	CORSAllowedOrigins []string

	ConsistencyScanIntervalMinutes int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	scanInterval, err := strconv.Atoi(getEnv("CONSISTENCY_SCAN_INTERVAL_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONSISTENCY_SCAN_INTERVAL_MINUTES: %w", err)
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  port,
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		AppwriteEndpoint:  os.Getenv("APPWRITE_ENDPOINT"),
		AppwriteProjectID: os.Getenv("APPWRITE_PROJECT_ID"),
		AppwriteAPIKey:    os.Getenv("APPWRITE_API_KEY"),
		AppwriteDatabase:  os.Getenv("APPWRITE_DATABASE_ID"),

		CollectionHackathons: getEnv("COLLECTION_HACKATHONS", "hackathons"),
		CollectionUsers:      getEnv("COLLECTION_USERS", "users"),
		CollectionTeams:      getEnv("COLLECTION_TEAMS", "teams"),

		RedisURL:           os.Getenv("REDIS_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		ConsistencyScanIntervalMinutes: scanInterval,
	}

	if cfg.AppwriteEndpoint != "" {
		if cfg.AppwriteProjectID == "" || cfg.AppwriteAPIKey == "" || cfg.AppwriteDatabase == "" {
			return nil, fmt.Errorf("APPWRITE_PROJECT_ID, APPWRITE_API_KEY, and APPWRITE_DATABASE_ID are required when APPWRITE_ENDPOINT is set")
		}
	}

	return cfg, nil
}

// DevMode reports whether the server should run on in-memory stores.
func (c *Config) DevMode() bool {
	return c.AppwriteEndpoint == ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
