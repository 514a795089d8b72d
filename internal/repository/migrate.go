package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// ErrFailedToApplyMigrations wraps every migration failure.
var ErrFailedToApplyMigrations = errors.New("failed to apply migrations")

// Migrator runs the embedded schema migrations for a Store's dialect.
type Migrator struct {
	provider *goose.Provider
	log      *slog.Logger
}

// Migrator returns a goose-backed migrator sharing the store's connection.
func (s *Store) Migrator(log *slog.Logger) (*Migrator, error) {
	dialect, dir := goose.DialectSQLite3, "migrations/sqlite"
	if s.driver == DriverPostgres {
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	}
	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, err
	}
	// The provider is never closed: closing it would close the store's *sql.DB.
	provider, err := goose.NewProvider(dialect, s.sqlDB, fsys)
	if err != nil {
		return nil, errors.Join(ErrFailedToApplyMigrations, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Migrator{provider: provider, log: log}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	m.report(ctx, results)
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	if len(results) == 0 {
		m.log.InfoContext(ctx, "all migrations already applied")
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if result != nil {
		m.report(ctx, []*goose.MigrationResult{result})
	}
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// Reset rolls back every applied migration.
func (m *Migrator) Reset(ctx context.Context) error {
	results, err := m.provider.DownTo(ctx, 0)
	m.report(ctx, results)
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// MigrationState describes one known migration.
type MigrationState struct {
	Version int64
	Path    string
	State   string
	Applied string
}

// Status lists all known migrations with their applied state.
func (m *Migrator) Status(ctx context.Context) ([]MigrationState, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration status: %w", err)
	}
	out := make([]MigrationState, 0, len(statuses))
	for _, st := range statuses {
		s := MigrationState{
			Version: st.Source.Version,
			Path:    st.Source.Path,
			State:   string(st.State),
		}
		if !st.AppliedAt.IsZero() {
			s.Applied = st.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *Migrator) report(ctx context.Context, results []*goose.MigrationResult) {
	for _, r := range results {
		if r.Error != nil {
			m.log.ErrorContext(ctx, "migration failed",
				"migration", r.Source.Path, "direction", r.Direction, "error", r.Error)
			continue
		}
		m.log.InfoContext(ctx, "migration completed",
			"migration", r.Source.Path, "direction", r.Direction, "duration", r.Duration)
	}
}
