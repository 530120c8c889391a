package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/aussiebroadwan/gotrue"
	"github.com/aussiebroadwan/gotrue/storage/sqlitestore"
)

type config struct {
	ReferenceID string // Optional: project reference forming the host prefix
	URL         string // Optional: full base URL, overrides the reference id
	APIKey      string // Required: anon or service key
	StateFile   string // Optional: SQLite file for persisted sessions (default: ./gotrue-state.db)
	LogLevel    string // Log level (debug, info, warn, error) (default: info)
	LogFormat   string // Log format (json, text) (default: text)
}

func loadConfig() config {
	return config{
		ReferenceID: os.Getenv("GOTRUE_REFERENCE_ID"),
		URL:         os.Getenv("GOTRUE_URL"),
		APIKey:      os.Getenv("GOTRUE_API_KEY"),
		StateFile:   getEnvOrDefault("GOTRUE_STATE_FILE", "gotrue-state.db"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// newLogger builds a slog.Logger per the configured level and format.
func newLogger(cfg config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newClient wires a file-backed client from the environment so sessions
// survive between CLI invocations.
func newClient(cfg config) (*gotrue.Client, func(), error) {
	store, err := sqlitestore.Open(cfg.StateFile)
	if err != nil {
		return nil, nil, err
	}

	client, err := gotrue.New(gotrue.Config{
		ReferenceID:    cfg.ReferenceID,
		URL:            cfg.URL,
		APIKey:         cfg.APIKey,
		PersistSession: true,
		Storage:        store,
		Logger:         newLogger(cfg),
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	return client, func() { _ = store.Close() }, nil
}
