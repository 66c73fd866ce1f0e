package service

import (
	"context"
	"fmt"

	"restaurant-dashboard/internal/analytics"
	"restaurant-dashboard/internal/dataset"
	"restaurant-dashboard/internal/model"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// maxLoggedWarnings caps the dish ids listed in an unmatched-sales log line.
const maxLoggedWarnings = 10

// metricsService implements MetricsService over a dataset provider.
type metricsService struct {
	provider dataset.Provider
	logger   zerolog.Logger
}

// NewMetricsService creates a new metrics service.
func NewMetricsService(provider dataset.Provider, logger zerolog.Logger) MetricsService {
	return &metricsService{
		provider: provider,
		logger:   logger.With().Str("service", "metrics").Logger(),
	}
}

func (s *metricsService) tables(ctx context.Context) (*dataset.Tables, error) {
	tables, err := s.provider.Tables(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load datasets")
		return nil, fmt.Errorf("failed to load datasets: %w", err)
	}
	return tables, nil
}

// join merges sales with the menu and logs dropped rows.
func (s *metricsService) join(t *dataset.Tables) analytics.JoinResult {
	joined := analytics.Join(t.Sales, t.Menu)
	if joined.Dropped() > 0 {
		ids := lo.Uniq(lo.Map(joined.Warnings, func(w model.ReferentialIntegrityError, _ int) int { return w.DishID }))
		s.logger.Warn().
			Str("snapshot_id", t.ID.String()).
			Int("dropped", joined.Dropped()).
			Ints("unknown_dish_ids", lo.Slice(ids, 0, maxLoggedWarnings)).
			Msg("sales reference dishes missing from the menu")
	}
	return joined
}

// SummaryKPIs returns the overview numbers.
func (s *metricsService) SummaryKPIs(ctx context.Context) (model.KPIs, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return model.KPIs{}, err
	}
	return analytics.SummaryKPIs(t.Sales, s.join(t)), nil
}

// DailyRevenue sums total_price by date.
func (s *metricsService) DailyRevenue(ctx context.Context) (model.Series, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return model.Series{}, err
	}
	return analytics.DailyRevenue(t.Sales), nil
}

// DailyExpenses sums expense amount by date.
func (s *metricsService) DailyExpenses(ctx context.Context) (model.Series, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return model.Series{}, err
	}
	return analytics.DailyExpenses(t.Expenses), nil
}

// NetProfit is revenue minus expenses per date.
func (s *metricsService) NetProfit(ctx context.Context) (model.Series, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return model.Series{}, err
	}
	return analytics.NetProfit(analytics.DailyRevenue(t.Sales), analytics.DailyExpenses(t.Expenses)), nil
}

// DailyQuantity sums items sold by date.
func (s *metricsService) DailyQuantity(ctx context.Context) (model.Series, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return model.Series{}, err
	}
	return analytics.DailyQuantity(t.Sales), nil
}

// CategoryBreakdown sums a sales measure by dish category.
func (s *metricsService) CategoryBreakdown(ctx context.Context, measure model.Measure) (model.Series, error) {
	if err := analytics.SalesMeasure(measure); err != nil {
		return model.Series{}, err
	}
	t, err := s.tables(ctx)
	if err != nil {
		return model.Series{}, err
	}
	return analytics.CategoryBreakdown(s.join(t), measure)
}

// CategoryDishes nests a sales measure by category and dish.
func (s *metricsService) CategoryDishes(ctx context.Context, measure model.Measure) ([]model.CategoryNode, error) {
	if err := analytics.SalesMeasure(measure); err != nil {
		return nil, err
	}
	t, err := s.tables(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.CategoryDishes(s.join(t), measure)
}

// ExpenseBreakdown sums expense amount by category.
func (s *metricsService) ExpenseBreakdown(ctx context.Context) (model.Series, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return model.Series{}, err
	}
	return analytics.ExpenseBreakdown(t.Expenses), nil
}

// TopDishes ranks dishes by a sales measure.
func (s *metricsService) TopDishes(ctx context.Context, measure model.Measure, n int) (model.Series, error) {
	if n <= 0 {
		return model.Series{}, model.ErrInvalidTopN
	}
	if err := analytics.SalesMeasure(measure); err != nil {
		return model.Series{}, err
	}
	t, err := s.tables(ctx)
	if err != nil {
		return model.Series{}, err
	}
	return analytics.TopDishes(s.join(t), measure, n)
}

// DishPerformance reports per-dish quantity and revenue.
func (s *metricsService) DishPerformance(ctx context.Context) ([]model.DishStat, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.DishPerformance(s.join(t)), nil
}

// HourlyDistribution sums items sold by hour.
func (s *metricsService) HourlyDistribution(ctx context.Context) (model.Series, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return model.Series{}, err
	}
	return analytics.HourlyDistribution(t.Sales), nil
}

// DayHourHeatmap sums items sold by weekday and hour.
func (s *metricsService) DayHourHeatmap(ctx context.Context, allHours bool) (model.Heatmap, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return model.Heatmap{}, err
	}
	return analytics.DayHourHeatmap(t.Sales, allHours), nil
}

// PriceConsistency lists sales whose recorded total is off.
func (s *metricsService) PriceConsistency(ctx context.Context) ([]model.PriceMismatch, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return nil, err
	}
	mismatches := analytics.PriceMismatches(t.Sales, t.Menu)
	if len(mismatches) > 0 {
		s.logger.Info().
			Str("snapshot_id", t.ID.String()).
			Int("mismatches", len(mismatches)).
			Msg("sales totals disagree with menu prices")
	}
	return mismatches, nil
}

// Query runs an ad-hoc aggregation.
func (s *metricsService) Query(ctx context.Context, ds model.Dataset, q analytics.Query, limit int) (model.Series, error) {
	if limit < 0 {
		return model.Series{}, model.ErrInvalidTopN
	}
	if err := q.Validate(); err != nil {
		return model.Series{}, err
	}
	if ds == model.DatasetMenu {
		return model.Series{}, model.InvalidQueryError("dataset %q cannot be aggregated (use sales or expenses)", ds)
	}

	t, err := s.tables(ctx)
	if err != nil {
		return model.Series{}, err
	}

	var series model.Series
	switch ds {
	case model.DatasetSales:
		joined := s.join(t)
		series, err = analytics.GroupAndSum(joined.Records, q)
		series.Dropped = joined.Dropped()
	case model.DatasetExpenses:
		series, err = analytics.GroupAndSum(t.Expenses, q)
	default:
		return model.Series{}, model.InvalidQueryError("unknown dataset %q", ds)
	}
	if err != nil {
		return model.Series{}, err
	}

	if limit > 0 {
		return analytics.TopN(series, limit)
	}
	return series, nil
}
