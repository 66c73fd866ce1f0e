package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"restaurant-dashboard/internal/model"
	"restaurant-dashboard/internal/source"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLSTATE codes mapped onto the dataset error taxonomy.
const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

const schema = `
	CREATE TABLE IF NOT EXISTS menu (
		dish_id INTEGER PRIMARY KEY,
		dish_name TEXT NOT NULL,
		category TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price > 0)
	);
	CREATE TABLE IF NOT EXISTS sales (
		id BIGSERIAL PRIMARY KEY,
		date DATE NOT NULL,
		dish_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		total_price NUMERIC(12,2) NOT NULL CHECK (total_price >= 0),
		hour SMALLINT NOT NULL CHECK (hour BETWEEN 0 AND 23)
	);
	CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date);
	CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		date DATE NOT NULL,
		category TEXT NOT NULL,
		amount NUMERIC(12,2) NOT NULL CHECK (amount >= 0)
	);
`

// tableQuery describes how a dataset is read back as text.
type tableQuery struct {
	columns []string
	orderBy string
}

var tableQueries = map[model.Dataset]tableQuery{
	model.DatasetMenu:     {columns: []string{"dish_id", "dish_name", "category", "price"}, orderBy: "dish_id"},
	model.DatasetSales:    {columns: []string{"date", "dish_id", "quantity", "total_price", "hour"}, orderBy: "id"},
	model.DatasetExpenses: {columns: []string{"date", "category", "amount"}, orderBy: "id"},
}

// sql selects every column cast to text so the shared decoder validates it.
func (q tableQuery) sql(table string) string {
	casts := make([]string, len(q.columns))
	for i, c := range q.columns {
		casts[i] = pgx.Identifier{c}.Sanitize() + "::text"
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(casts, ", "),
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{q.orderBy}.Sanitize(),
	)
}

var undefinedColumn = regexp.MustCompile(`column "?([^"\s]+)"? does not exist`)

// tableRepository implements TableRepository using PostgreSQL.
type tableRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTableRepository creates a new PostgreSQL-backed table repository.
func NewTableRepository(pool *pgxpool.Pool, logger zerolog.Logger) TableRepository {
	return &tableRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "tables").Logger(),
	}
}

// Fetch reads one dataset table as text rows.
func (r *tableRepository) Fetch(ctx context.Context, dataset model.Dataset) (*source.RawTable, error) {
	q, ok := tableQueries[dataset]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q", dataset)
	}

	rows, err := r.pool.Query(ctx, q.sql(string(dataset)))
	if err != nil {
		return nil, r.mapError(dataset, err)
	}
	defer rows.Close()

	table := &source.RawTable{
		Header: append([]string(nil), q.columns...),
		Rows:   make([][]string, 0),
	}

	for rows.Next() {
		values := make([]*string, len(q.columns))
		dest := make([]any, len(values))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			r.logger.Error().Err(err).Str("dataset", string(dataset)).Msg("failed to scan row")
			return nil, fmt.Errorf("failed to scan %s row: %w", dataset, err)
		}

		cells := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				cells[i] = *v
			}
		}
		table.Rows = append(table.Rows, cells)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapError(dataset, err)
	}

	r.logger.Debug().
		Str("dataset", string(dataset)).
		Int("rows", table.Len()).
		Msg("dataset table read")

	return table, nil
}

// mapError converts missing-table and missing-column failures into dataset errors.
func (r *tableRepository) mapError(dataset model.Dataset, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable:
			r.logger.Error().Str("dataset", string(dataset)).Msg("dataset table does not exist")
			return &model.DataNotFoundError{Dataset: dataset, Location: "postgres table " + string(dataset), Err: err}
		case pgUndefinedColumn:
			column := ""
			if m := undefinedColumn.FindStringSubmatch(pgErr.Message); m != nil {
				column = m[1]
			}
			r.logger.Error().Str("dataset", string(dataset)).Str("column", column).Msg("dataset column does not exist")
			return &model.SchemaError{Dataset: dataset, Column: column, Reason: "required column is missing"}
		}
	}

	r.logger.Error().Err(err).Str("dataset", string(dataset)).Msg("failed to query dataset table")
	return fmt.Errorf("failed to query %s: %w", dataset, err)
}

// EnsureSchema creates the dataset tables.
func (r *tableRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		r.logger.Error().Err(err).Msg("failed to create schema")
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Seed truncates the dataset tables and bulk-loads the given records with COPY.
func (r *tableRepository) Seed(ctx context.Context, menu []model.Dish, sales []model.SaleRecord, expenses []model.ExpenseRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "TRUNCATE menu, sales, expenses RESTART IDENTITY"); err != nil {
		return fmt.Errorf("failed to truncate dataset tables: %w", err)
	}

	copies := []struct {
		table   string
		columns []string
		rows    pgx.CopyFromSource
	}{
		{
			table:   "menu",
			columns: []string{"dish_id", "dish_name", "category", "price"},
			rows: pgx.CopyFromSlice(len(menu), func(i int) ([]any, error) {
				d := menu[i]
				return []any{d.ID, d.Name, d.Category, d.Price}, nil
			}),
		},
		{
			table:   "sales",
			columns: []string{"date", "dish_id", "quantity", "total_price", "hour"},
			rows: pgx.CopyFromSlice(len(sales), func(i int) ([]any, error) {
				s := sales[i]
				return []any{s.Date, s.DishID, s.Quantity, s.TotalPrice, s.Hour}, nil
			}),
		},
		{
			table:   "expenses",
			columns: []string{"date", "category", "amount"},
			rows: pgx.CopyFromSlice(len(expenses), func(i int) ([]any, error) {
				e := expenses[i]
				return []any{e.Date, e.Category, e.Amount}, nil
			}),
		},
	}

	for _, c := range copies {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, c.rows)
		if err != nil {
			r.logger.Error().Err(err).Str("table", c.table).Msg("failed to copy rows")
			return fmt.Errorf("failed to copy %s: %w", c.table, err)
		}
		r.logger.Debug().Str("table", c.table).Int64("rows", n).Msg("rows copied")
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit seed")
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	r.logger.Info().
		Int("menu", len(menu)).
		Int("sales", len(sales)).
		Int("expenses", len(expenses)).
		Msg("dataset tables seeded")

	return nil
}
