package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/naturae/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the repository needs. Keeping it
// narrow lets tests substitute a pgxmock pool.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	FetchDueSites(ctx context.Context, limit int) ([]models.Site, error)
	RecordSpecies(ctx context.Context, siteID int, filter models.StatusFilter, records []models.SpeciesRecord) error
	MarkSurveyed(ctx context.Context, siteID int) error
	IncrementFailureCount(ctx context.Context, siteID int, errMsg string) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
