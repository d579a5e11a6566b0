package config

import (
	"os"
	"strings"
	"time"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate. See .env.example.
type Config struct {
	// DatabaseURL selects the storage backend by scheme:
	// mongodb:// or mongodb+srv:// for MongoDB, postgres:// or
	// postgresql:// for PostgreSQL.
	DatabaseURL  string
	DatabaseName string

	// Collection is the MongoDB collection (or PostgreSQL table) that
	// receives one document per submitted report.
	Collection string

	ListenAddr string

	// CORSOrigins is sent back as Access-Control-Allow-Origin.
	CORSOrigins string

	ConnectTimeout time.Duration
	WriteTimeout   time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	cfg := &Config{
		DatabaseURL:    getenv("APP_DATABASE_URL", getenv("MONGODB_URI", "mongodb://localhost:27017/")),
		DatabaseName:   getenv("APP_DATABASE_NAME", "survey_db"),
		Collection:     getenv("APP_COLLECTION", "reports"),
		ListenAddr:     getenv("APP_LISTEN_ADDR", ":"+getenv("PORT", "5000")),
		CORSOrigins:    getenv("APP_CORS_ORIGINS", "*"),
		ConnectTimeout: 10 * time.Second,
		WriteTimeout:   10 * time.Second,
		LogLevel:       strings.ToLower(getenv("APP_LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getenv("APP_LOG_FORMAT", "json")),
	}

	if d, ok := getduration("APP_DB_CONNECT_TIMEOUT"); ok {
		cfg.ConnectTimeout = d
	}
	if d, ok := getduration("APP_DB_WRITE_TIMEOUT"); ok {
		cfg.WriteTimeout = d
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getduration parses a positive Go duration ("5s", "1m"); anything else is ignored.
func getduration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
