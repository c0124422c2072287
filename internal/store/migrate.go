package store

import (
	"context"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// migrationTarget is the per-database half of the migration runner.
type migrationTarget interface {
	// ensureVersionTable creates schema_migrations if it does not exist.
	ensureVersionTable(ctx context.Context) error
	// applied reports whether version has been recorded.
	applied(ctx context.Context, version string) (bool, error)
	// apply executes sql and records version in one transaction.
	apply(ctx context.Context, version, sql string) error
}

// runMigrations applies pending SQL migrations from migrations/<dir> in
// filename order. Migrations are tracked in a schema_migrations table.
// There are no down migrations; fix forward only.
func runMigrations(ctx context.Context, target migrationTarget, dir string) error {
	if err := target.ensureVersionTable(ctx); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	versions, err := migrationVersions(dir)
	if err != nil {
		return err
	}

	for _, version := range versions {
		done, err := target.applied(ctx, version)
		if err != nil {
			return fmt.Errorf("checking migration %s: %w", version, err)
		}
		if done {
			continue
		}

		sql, err := migrationsFS.ReadFile(path.Join("migrations", dir, version))
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", version, err)
		}

		if err := target.apply(ctx, version, string(sql)); err != nil {
			return fmt.Errorf("applying migration %s: %w", version, err)
		}
	}

	return nil
}

// migrationVersions lists the .sql files of a dialect in version order.
func migrationVersions(dir string) ([]string, error) {
	entries, err := migrationsFS.ReadDir(path.Join("migrations", dir))
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		versions = append(versions, entry.Name())
	}
	// Lexicographic order gives us version order.
	sort.Strings(versions)

	return versions, nil
}
