package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/Kamar-Folarin/issue-stats/internal/models"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

type PostgresStore struct {
	db *sql.DB
}

// Store defines the interface for database operations
type Store interface {
	// Day record operations
	SaveDayStat(ctx context.Context, stat *models.DayStat) error
	SaveDayStats(ctx context.Context, stats []*models.DayStat) error
	ListDayStats(ctx context.Context, limit int) ([]*models.DayStat, error)
	GetDayStat(ctx context.Context, date string) (*models.DayStat, error)
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Migrate() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	goose.SetBaseFS(migrations)
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
