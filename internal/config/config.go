package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Postgres connection
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	DatabaseURL      string // Overrides the POSTGRES_* fields when set
	PoolMinSize      int
	PoolMaxSize      int

	// Gemini
	GoogleAPIKey   string
	GeminiModel    string
	EmbeddingModel string

	// Retrieval tuning
	VectorCollection string
	SearchK          int
	TotalK           int
	PrimaryRatio     float64
	PrimarySource    string
	RewriteThreshold int

	// HTTP
	APIPort     string
	CORSOrigins []string

	// Logging
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for all fields so the server can run locally without any
// explicit configuration. If a .env file exists in the current directory or a
// parent directory (up to the project root), it is loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up a few levels looking for a .env at the project root
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:       getEnv("POSTGRES_DB", "thesis_bot"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		GoogleAPIKey:     getEnv("GOOGLE_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "embedding-001"),
		VectorCollection: getEnv("VECTOR_COLLECTION", "thesis_docs"),
		PrimarySource:    getEnv("PRIMARY_SOURCE", "thesis"),
		APIPort:          getEnv("API_PORT", "8000"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	var parseErr error
	cfg.PoolMinSize = getEnvInt("DB_POOL_MIN_SIZE", 2, &parseErr)
	cfg.PoolMaxSize = getEnvInt("DB_POOL_MAX_SIZE", 10, &parseErr)
	cfg.SearchK = getEnvInt("SEARCH_K", 15, &parseErr)
	cfg.TotalK = getEnvInt("TOTAL_K", 8, &parseErr)
	cfg.RewriteThreshold = getEnvInt("HISTORY_REWRITE_THRESHOLD", 2, &parseErr)
	cfg.PrimaryRatio = getEnvFloat("PRIMARY_RATIO", 0.75, &parseErr)
	if parseErr != nil {
		return nil, parseErr
	}

	if cfg.PoolMinSize < 0 || cfg.PoolMaxSize <= 0 || cfg.PoolMinSize > cfg.PoolMaxSize {
		return nil, fmt.Errorf("invalid pool sizing: min=%d max=%d", cfg.PoolMinSize, cfg.PoolMaxSize)
	}
	if cfg.SearchK <= 0 || cfg.TotalK <= 0 {
		return nil, fmt.Errorf("SEARCH_K and TOTAL_K must be greater than 0")
	}
	if cfg.TotalK > cfg.SearchK {
		return nil, fmt.Errorf("TOTAL_K (%d) must not exceed SEARCH_K (%d)", cfg.TotalK, cfg.SearchK)
	}
	if cfg.PrimaryRatio < 0 || cfg.PrimaryRatio > 1 {
		return nil, fmt.Errorf("PRIMARY_RATIO must be in [0,1], got %v", cfg.PrimaryRatio)
	}
	if cfg.RewriteThreshold < 0 {
		return nil, fmt.Errorf("HISTORY_REWRITE_THRESHOLD must not be negative")
	}

	// CORS origins: comma-separated list, "*" allows any origin
	origins := getEnv("CORS_ORIGINS", "*")
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn", "warning":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL: %s", os.Getenv("LOG_LEVEL"))
	}

	return cfg, nil
}

// ConnString returns the Postgres connection string. DATABASE_URL takes
// precedence; otherwise the string is assembled from the POSTGRES_* fields.
func (c *Config) ConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		url.QueryEscape(c.PostgresUser),
		url.QueryEscape(c.PostgresPassword),
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
	)
}

// AllowAnyOrigin reports whether CORS is configured with the wildcard origin.
func (c *Config) AllowAnyOrigin() bool {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer environment variable, recording the first
// parse failure in *errOut so Load can report it.
func getEnvInt(key string, defaultValue int, errOut *error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		if *errOut == nil {
			*errOut = fmt.Errorf("%s must be a valid integer: %w", key, err)
		}
		return defaultValue
	}
	return n
}

// getEnvFloat parses a float environment variable, recording the first
// parse failure in *errOut so Load can report it.
func getEnvFloat(key string, defaultValue float64, errOut *error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		if *errOut == nil {
			*errOut = fmt.Errorf("%s must be a valid number: %w", key, err)
		}
		return defaultValue
	}
	return f
}
