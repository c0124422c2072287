// Package store defines the generation history abstraction for cardsmith.
// Handlers and commands depend on the Store interface, never on a concrete
// database, so tests run against mocks or an in-memory SQLite database.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/donaldgifford/cardsmith/internal/config"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// ErrNotFound is returned when a generation does not exist.
var ErrNotFound = errors.New("generation not found")

// Store defines all history operations.
type Store interface {
	// Generations
	AddGeneration(ctx context.Context, g *domain.Generation) error
	GetGeneration(ctx context.Context, id int64) (*domain.Generation, error)
	RecentGenerations(ctx context.Context, userID string, limit int) ([]domain.Generation, error)
	ListGenerations(ctx context.Context, q *HistoryQuery) ([]domain.Generation, int, error)

	// Retention
	PruneHistory(ctx context.Context, userID string, keep int) (int64, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Stats
	StatsOverview(ctx context.Context) (*domain.HistoryOverview, error)
	PerUserCounts(ctx context.Context, limit int) ([]domain.UserCount, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
	Close()
}

// Open connects to the database selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg.DSN(), WithPoolSize(cfg.PoolSize))
	case config.DriverSQLite, "":
		return NewSQLiteStore(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
