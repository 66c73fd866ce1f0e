package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"restaurant-dashboard/internal/model"
	"restaurant-dashboard/internal/source"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Tables is an immutable snapshot of the three source tables.
type Tables struct {
	ID       uuid.UUID
	LoadedAt time.Time

	Sales    []model.SaleRecord
	Menu     []model.Dish
	Expenses []model.ExpenseRecord
}

// Provider supplies the current table snapshot to the metrics facade.
type Provider interface {
	Tables(ctx context.Context) (*Tables, error)
}

// Loader reads and validates datasets from a Source. Every call re-reads.
type Loader struct {
	source source.Source
	logger zerolog.Logger
}

// NewLoader creates a Loader over src.
func NewLoader(src source.Source, logger zerolog.Logger) *Loader {
	return &Loader{
		source: src,
		logger: logger.With().Str("component", "dataset-loader").Logger(),
	}
}

func (l *Loader) fetch(ctx context.Context, dataset model.Dataset) (*source.RawTable, error) {
	table, err := l.source.Fetch(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", dataset, err)
	}
	return table, nil
}

// Menu loads the dish catalogue.
func (l *Loader) Menu(ctx context.Context) ([]model.Dish, error) {
	table, err := l.fetch(ctx, model.DatasetMenu)
	if err != nil {
		return nil, err
	}
	return DecodeMenu(table)
}

// Sales loads the sales transactions.
func (l *Loader) Sales(ctx context.Context) ([]model.SaleRecord, error) {
	table, err := l.fetch(ctx, model.DatasetSales)
	if err != nil {
		return nil, err
	}
	return DecodeSales(table)
}

// Expenses loads the expense ledger.
func (l *Loader) Expenses(ctx context.Context) ([]model.ExpenseRecord, error) {
	table, err := l.fetch(ctx, model.DatasetExpenses)
	if err != nil {
		return nil, err
	}
	return DecodeExpenses(table)
}

// Load loads one dataset by identifier. The result holds []model.Dish,
// []model.SaleRecord or []model.ExpenseRecord.
func (l *Loader) Load(ctx context.Context, dataset model.Dataset) (any, error) {
	switch dataset {
	case model.DatasetMenu:
		return l.Menu(ctx)
	case model.DatasetSales:
		return l.Sales(ctx)
	case model.DatasetExpenses:
		return l.Expenses(ctx)
	}
	return nil, fmt.Errorf("unknown dataset %q", dataset)
}

// Tables loads all three datasets concurrently. Any failure aborts the load.
func (l *Loader) Tables(ctx context.Context) (*Tables, error) {
	start := time.Now()

	type loadResult struct {
		index int
		value any
		err   error
	}

	resultChan := make(chan loadResult, len(model.Datasets))
	var wg sync.WaitGroup

	for i, ds := range model.Datasets {
		wg.Add(1)
		go func(index int, dataset model.Dataset) {
			defer wg.Done()

			value, err := l.Load(ctx, dataset)
			resultChan <- loadResult{index: index, value: value, err: err}
		}(i, ds)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(model.Datasets))
	for result := range resultChan {
		results[result.index] = result
	}

	tables := &Tables{ID: uuid.New()}
	for i, result := range results {
		if result.err != nil {
			l.logger.Error().
				Err(result.err).
				Str("dataset", string(model.Datasets[i])).
				Msg("failed to load dataset")
			return nil, result.err
		}
		switch v := result.value.(type) {
		case []model.Dish:
			tables.Menu = v
		case []model.SaleRecord:
			tables.Sales = v
		case []model.ExpenseRecord:
			tables.Expenses = v
		}
	}
	tables.LoadedAt = time.Now().UTC()

	l.logger.Info().
		Str("snapshot_id", tables.ID.String()).
		Int("menu", len(tables.Menu)).
		Int("sales", len(tables.Sales)).
		Int("expenses", len(tables.Expenses)).
		Dur("duration", time.Since(start)).
		Msg("datasets loaded")

	return tables, nil
}
