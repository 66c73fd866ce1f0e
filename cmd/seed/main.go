package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"restaurant-dashboard/internal/config"
	"restaurant-dashboard/internal/database"
	"restaurant-dashboard/internal/dataset"
	"restaurant-dashboard/internal/repository"
	"restaurant-dashboard/internal/source"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads the CSV datasets from a directory and copies them into Postgres.
// The tables are read back through the same loader the API uses, so a
// successful run means the database serves the same snapshot as the files.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dir := flag.String("dir", cfg.Data.Dir, "directory holding menu.csv, sales.csv and expenses.csv")
	dbURL := flag.String("db-url", "", "Postgres connection string (defaults to the DB_* settings)")
	flag.Parse()

	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	files, err := dataset.NewLoader(source.NewFileSource(*dir, logger), logger).Tables(ctx)
	if err != nil {
		return fmt.Errorf("failed to load CSV datasets from %s: %w", *dir, err)
	}

	var pool *pgxpool.Pool
	if *dbURL != "" {
		pool, err = database.NewPoolFromURL(ctx, *dbURL, logger)
	} else {
		pool, err = database.NewPool(ctx, cfg.Database, logger)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	repo := repository.NewTableRepository(pool, logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := repo.Seed(ctx, files.Menu, files.Sales, files.Expenses); err != nil {
		return err
	}

	stored, err := dataset.NewLoader(repo, logger).Tables(ctx)
	if err != nil {
		return fmt.Errorf("failed to read seeded tables back: %w", err)
	}
	if len(stored.Sales) != len(files.Sales) || len(stored.Menu) != len(files.Menu) || len(stored.Expenses) != len(files.Expenses) {
		return fmt.Errorf("seeded row counts differ: files menu=%d sales=%d expenses=%d, database menu=%d sales=%d expenses=%d",
			len(files.Menu), len(files.Sales), len(files.Expenses),
			len(stored.Menu), len(stored.Sales), len(stored.Expenses))
	}

	fmt.Printf("Seeded %d dishes, %d sales and %d expenses from %s\n",
		len(stored.Menu), len(stored.Sales), len(stored.Expenses), *dir)
	return nil
}
