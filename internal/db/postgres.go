package db

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"surveyreport/internal/config"
	"surveyreport/internal/report"
)

// PostgresStore writes one row per report into APP_COLLECTION.
type PostgresStore struct {
	db     *gorm.DB
	table  string
	logger *zap.Logger
}

// ConnectPostgres opens a GORM connection and auto-migrates the report table.
func ConnectPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DatabaseURL)

	// PrepareStmt: true prevents the GORM postgres migrator from forcing simple protocol
	// for "SELECT * FROM table LIMIT 1", which would otherwise trigger "insufficient arguments".
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if err := db.WithContext(ctx).Table(cfg.Collection).AutoMigrate(&ReportRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Info("connected to PostgreSQL", zap.String("table", cfg.Collection))

	return &PostgresStore{db: db, table: cfg.Collection, logger: logger}, nil
}

func (s *PostgresStore) Backend() string { return BackendPostgres }

// InsertReport inserts rec as a single row and returns its primary key.
func (s *PostgresStore) InsertReport(ctx context.Context, rec *report.Record) (string, error) {
	row, err := newReportRow(rec)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Table(s.table).Create(row).Error; err != nil {
		return "", err
	}
	return strconv.FormatUint(uint64(row.ID), 10), nil
}

func (s *PostgresStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return err
	}
	s.logger.Info("closed PostgreSQL connection")
	return nil
}
