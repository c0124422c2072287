package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool  *pgxpool.Pool
	stmts statements
	now   func() time.Time
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*pgxpool.Config)

// WithPoolSize sets the maximum number of pooled connections.
func WithPoolSize(n int) PostgresOption {
	return func(cfg *pgxpool.Config) {
		if n > 0 {
			cfg.MaxConns = int32(min(n, 1<<10)) //nolint:gosec // bounded above
		}
	}
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(
	ctx context.Context,
	connString string,
	opts ...PostgresOption,
) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{
		pool:  pool,
		stmts: render(postgresDialect),
		now:   time.Now,
	}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s, "postgres")
}

// AddGeneration inserts a history record and fills in its ID.
func (s *PostgresStore) AddGeneration(ctx context.Context, g *domain.Generation) error {
	bullets, err := prepare(g, s.now)
	if err != nil {
		return err
	}

	err = s.pool.QueryRow(ctx, s.stmts.insertGeneration+" RETURNING id",
		g.UserID, g.Platform, g.Language, g.ProductName, g.Features,
		g.Title, g.ShortDescription, string(bullets), g.CreatedAt,
	).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("inserting generation: %w", err)
	}
	return nil
}

// GetGeneration retrieves a history record by ID.
func (s *PostgresStore) GetGeneration(ctx context.Context, id int64) (*domain.Generation, error) {
	g := &domain.Generation{}
	err := scanPostgresGeneration(s.pool.QueryRow(ctx, s.stmts.getGeneration, id), g)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting generation %d: %w", id, err)
	}
	return g, nil
}

// RecentGenerations returns the newest records for a user.
func (s *PostgresStore) RecentGenerations(
	ctx context.Context,
	userID string,
	limit int,
) ([]domain.Generation, error) {
	gens, _, err := s.ListGenerations(ctx, &HistoryQuery{UserID: &userID, Limit: limit})
	return gens, err
}

// ListGenerations queries history with optional filters, returning results
// and the total count.
func (s *PostgresStore) ListGenerations(
	ctx context.Context,
	q *HistoryQuery,
) ([]domain.Generation, int, error) {
	dataSQL, countSQL, args := q.ToSQL(postgresDialect)

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting generations: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying generations: %w", err)
	}
	defer rows.Close()

	gens := []domain.Generation{}
	for rows.Next() {
		var g domain.Generation
		if err := scanPostgresGeneration(rows, &g); err != nil {
			return nil, 0, fmt.Errorf("scanning generation: %w", err)
		}
		gens = append(gens, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating generations: %w", err)
	}

	return gens, total, nil
}

// PruneHistory keeps only the newest keep records of a user. A keep of
// zero or less disables pruning.
func (s *PostgresStore) PruneHistory(ctx context.Context, userID string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, s.stmts.pruneHistory, userID, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning history for %s: %w", userID, err)
	}
	return tag.RowsAffected(), nil
}

// PruneOlderThan deletes every record created before cutoff.
func (s *PostgresStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, s.stmts.pruneOlderThan, postgresDialect.timeArg(cutoff))
	if err != nil {
		return 0, fmt.Errorf("pruning history older than %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}

// StatsOverview aggregates over all stored generations.
func (s *PostgresStore) StatsOverview(ctx context.Context) (*domain.HistoryOverview, error) {
	var (
		o    domain.HistoryOverview
		last *time.Time
	)
	if err := s.pool.QueryRow(ctx, s.stmts.statsOverview).Scan(
		&o.TotalGenerations, &o.Users, &last,
	); err != nil {
		return nil, fmt.Errorf("querying history overview: %w", err)
	}
	if last != nil {
		t := last.UTC()
		o.LastGeneratedAt = &t
	}
	return &o, nil
}

// PerUserCounts returns the users with the most generations.
func (s *PostgresStore) PerUserCounts(ctx context.Context, limit int) ([]domain.UserCount, error) {
	rows, err := s.pool.Query(ctx, s.stmts.perUserCounts, NormalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying per-user counts: %w", err)
	}
	defer rows.Close()

	counts := []domain.UserCount{}
	for rows.Next() {
		var c domain.UserCount
		if err := rows.Scan(&c.UserID, &c.Count, &c.FirstAt, &c.LastAt); err != nil {
			return nil, fmt.Errorf("scanning per-user count: %w", err)
		}
		c.FirstAt, c.LastAt = c.FirstAt.UTC(), c.LastAt.UTC()
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *PostgresStore) ensureVersionTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (s *PostgresStore) applied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
		version,
	).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) apply(ctx context.Context, version, sql string) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, sql); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version)
		return err
	})
}

// scannable abstracts pgx.Row and pgx.Rows for reuse.
type scannable interface {
	Scan(dest ...any) error
}

func scanPostgresGeneration(row scannable, g *domain.Generation) error {
	var bullets []byte
	if err := row.Scan(
		&g.ID, &g.UserID, &g.Platform, &g.Language, &g.ProductName, &g.Features,
		&g.Title, &g.ShortDescription, &bullets, &g.CreatedAt,
	); err != nil {
		return err
	}
	g.CreatedAt = g.CreatedAt.UTC()

	decoded, err := decodeBullets(bullets)
	if err != nil {
		return err
	}
	g.Bullets = decoded
	return nil
}

var _ Store = (*PostgresStore)(nil)
