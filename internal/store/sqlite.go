package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// MemoryPath opens a private in-memory SQLite database.
const MemoryPath = ":memory:"

// SQLiteStore implements Store with an embedded SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	stmts statements
	now   func() time.Time
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithSQLiteNowFunc overrides the clock used for records without a
// creation time.
func WithSQLiteNowFunc(fn func() time.Time) SQLiteOption {
	return func(s *SQLiteStore) {
		s.now = fn
	}
}

// NewSQLiteStore opens (and creates if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	if path == "" {
		path = MemoryPath
	}
	if path != MemoryPath && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// One connection serializes writers and keeps an in-memory database
	// alive for the life of the store.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if path != MemoryPath {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL: %w", err)
		}
	}

	s := &SQLiteStore{
		db:    db,
		stmts: render(sqliteDialect),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s, "sqlite")
}

// AddGeneration inserts a history record and fills in its ID.
func (s *SQLiteStore) AddGeneration(ctx context.Context, g *domain.Generation) error {
	bullets, err := prepare(g, s.now)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, s.stmts.insertGeneration,
		g.UserID, g.Platform, g.Language, g.ProductName, g.Features,
		g.Title, g.ShortDescription, string(bullets), g.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("inserting generation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading generation id: %w", err)
	}
	g.ID = id
	return nil
}

// GetGeneration retrieves a history record by ID.
func (s *SQLiteStore) GetGeneration(ctx context.Context, id int64) (*domain.Generation, error) {
	g := &domain.Generation{}
	err := scanSQLiteGeneration(s.db.QueryRowContext(ctx, s.stmts.getGeneration, id), g)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting generation %d: %w", id, err)
	}
	return g, nil
}

// RecentGenerations returns the newest records for a user.
func (s *SQLiteStore) RecentGenerations(
	ctx context.Context,
	userID string,
	limit int,
) ([]domain.Generation, error) {
	gens, _, err := s.ListGenerations(ctx, &HistoryQuery{UserID: &userID, Limit: limit})
	return gens, err
}

// ListGenerations queries history with optional filters, returning results
// and the total count.
func (s *SQLiteStore) ListGenerations(
	ctx context.Context,
	q *HistoryQuery,
) ([]domain.Generation, int, error) {
	dataSQL, countSQL, args := q.ToSQL(sqliteDialect)

	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting generations: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying generations: %w", err)
	}
	defer rows.Close()

	gens := []domain.Generation{}
	for rows.Next() {
		var g domain.Generation
		if err := scanSQLiteGeneration(rows, &g); err != nil {
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
func (s *SQLiteStore) PruneHistory(ctx context.Context, userID string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, s.stmts.pruneHistory, userID, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning history for %s: %w", userID, err)
	}
	return res.RowsAffected()
}

// PruneOlderThan deletes every record created before cutoff.
func (s *SQLiteStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.stmts.pruneOlderThan, sqliteDialect.timeArg(cutoff))
	if err != nil {
		return 0, fmt.Errorf("pruning history older than %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return res.RowsAffected()
}

// StatsOverview aggregates over all stored generations.
func (s *SQLiteStore) StatsOverview(ctx context.Context) (*domain.HistoryOverview, error) {
	var (
		o    domain.HistoryOverview
		last sql.NullInt64
	)
	if err := s.db.QueryRowContext(ctx, s.stmts.statsOverview).Scan(
		&o.TotalGenerations, &o.Users, &last,
	); err != nil {
		return nil, fmt.Errorf("querying history overview: %w", err)
	}
	if last.Valid {
		t := time.UnixMilli(last.Int64).UTC()
		o.LastGeneratedAt = &t
	}
	return &o, nil
}

// PerUserCounts returns the users with the most generations.
func (s *SQLiteStore) PerUserCounts(ctx context.Context, limit int) ([]domain.UserCount, error) {
	rows, err := s.db.QueryContext(ctx, s.stmts.perUserCounts, NormalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying per-user counts: %w", err)
	}
	defer rows.Close()

	counts := []domain.UserCount{}
	for rows.Next() {
		var (
			c           domain.UserCount
			first, last int64
		)
		if err := rows.Scan(&c.UserID, &c.Count, &first, &last); err != nil {
			return nil, fmt.Errorf("scanning per-user count: %w", err)
		}
		c.FirstAt = time.UnixMilli(first).UTC()
		c.LastAt = time.UnixMilli(last).UTC()
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) ensureVersionTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func (s *SQLiteStore) applied(ctx context.Context, version string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?1",
		version,
	).Scan(&n)
	return n > 0, err
}

func (s *SQLiteStore) apply(ctx context.Context, version, script string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version) VALUES (?1)", version,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func scanSQLiteGeneration(row scannable, g *domain.Generation) error {
	var (
		bullets   string
		createdAt int64
	)
	if err := row.Scan(
		&g.ID, &g.UserID, &g.Platform, &g.Language, &g.ProductName, &g.Features,
		&g.Title, &g.ShortDescription, &bullets, &createdAt,
	); err != nil {
		return err
	}
	g.CreatedAt = time.UnixMilli(createdAt).UTC()

	decoded, err := decodeBullets([]byte(bullets))
	if err != nil {
		return err
	}
	g.Bullets = decoded
	return nil
}

var _ Store = (*SQLiteStore)(nil)
