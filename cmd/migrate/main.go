package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/repository"
)

var (
	driver string
	dsn    string
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the portfolio database schema",
	Long: `migrate applies, rolls back and reports the embedded schema migrations.

The database is taken from DATABASE_DRIVER and DATABASE_PATH / DATABASE_URL
(a .env file is read if present) unless --driver and --dsn are given.`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *repository.Migrator) error {
			return m.Up(ctx)
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *repository.Migrator) error {
			return m.Down(ctx)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Roll back every migration, then apply them all again",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *repository.Migrator) error {
			if err := m.Reset(ctx); err != nil {
				return err
			}
			return m.Up(ctx)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *repository.Migrator) error {
			states, err := m.Status(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tMIGRATION")
			for _, s := range states {
				applied := s.Applied
				if applied == "" {
					applied = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Version, s.State, applied, s.Path)
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "database driver: sqlite or postgres (default: $DATABASE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "SQLite file path or PostgreSQL URL (default: $DATABASE_PATH / $DATABASE_URL)")
	rootCmd.AddCommand(upCmd, downCmd, resetCmd, statusCmd)
}

func withMigrator(ctx context.Context, fn func(context.Context, *repository.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if driver == "" {
		driver = cfg.Database.Driver
	}
	if dsn == "" {
		dsn = cfg.Database.Path
		if driver == config.DriverPostgres {
			dsn = cfg.Database.URL
		}
	}

	store, err := repository.Open(ctx, driver, dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	m, err := store.Migrator(nil)
	if err != nil {
		return err
	}
	return fn(ctx, m)
}

func main() {
	if _, err := logging.Setup(os.Getenv("LOG_LEVEL"), ""); err != nil {
		logging.Fatal("setup logging failed", "error", err)
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
