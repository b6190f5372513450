package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"footnote/database/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var databaseURL string

func main() {
	godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"),
		"PostgreSQL connection string (defaults to $DATABASE_URL)")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB opens the database named by --database-url. The caller must close it.
func openDB(ctx context.Context) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return pool, nil
}

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage the footnote database schema",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.MigrateUp(db); err != nil {
			return err
		}

		version, _, err := migrations.Version(db)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Database at version %d\n", version)
		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid steps %q: %w", args[0], err)
			}
			steps = n
		}

		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.MigrateDown(db, steps); err != nil {
			return err
		}
		fmt.Printf("✓ Rolled back %d migration(s)\n", steps)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current and latest schema versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		latest, err := migrations.LatestVersion()
		if err != nil {
			return err
		}

		version, dirty, err := migrations.Version(db)
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Printf("Database has no schema version (latest %d)\n", latest)
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Database at version %d (latest %d)", version, latest)
		if dirty {
			fmt.Print(" [dirty]")
		}
		fmt.Println()

		return migrations.CheckDBMigrationStatus(db)
	},
}
