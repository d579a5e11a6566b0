package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"surveyreport/internal/config"
	"surveyreport/internal/report"
)

const (
	BackendMongo    = "mongodb"
	BackendPostgres = "postgres"
)

// Store is a connected report store held for the lifetime of the process.
type Store interface {
	report.Store
	Backend() string
	Close(ctx context.Context) error
}

// Connect opens and verifies the backend selected by the scheme of
// APP_DATABASE_URL. The returned store is safe for concurrent use.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, error) {
	backend, err := backendFor(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	var store Store
	switch backend {
	case BackendMongo:
		store, err = ConnectMongo(ctx, cfg, logger)
	case BackendPostgres:
		store, err = ConnectPostgres(ctx, cfg, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", backend, err)
	}
	return store, nil
}

func backendFor(rawURL string) (string, error) {
	dsn := strings.TrimSpace(rawURL)
	switch {
	case dsn == "":
		return "", errors.New("APP_DATABASE_URL is required (mongodb:// or postgres:// URL)")
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return BackendMongo, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return BackendPostgres, nil
	default:
		return "", errors.New("APP_DATABASE_URL must be a mongodb://, mongodb+srv://, postgres:// or postgresql:// URL")
	}
}
