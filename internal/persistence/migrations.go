package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// Migration dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// ExecFunc runs one migration script.
type ExecFunc func(ctx context.Context, script string) error

// RunMigrations executes the embedded SQL migrations for dialect in file name order.
// Scripts are written to be idempotent, so every start reapplies them.
func RunMigrations(ctx context.Context, dialect string, exec ExecFunc, logger *zap.Logger) error {
	if exec == nil {
		logger.Warn("no database handle available; skipping migrations")
		return nil
	}

	dir := path.Join("migrations", dialect)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filenames = append(filenames, entry.Name())
	}

	sort.Strings(filenames)

	for _, name := range filenames {
		content, err := fs.ReadFile(migrationsFS, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		logger.Info("applying migration", zap.String("dialect", dialect), zap.String("file", name))
		if err := exec(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	logger.Info("migrations applied", zap.String("dialect", dialect), zap.Int("count", len(filenames)))
	return nil
}
