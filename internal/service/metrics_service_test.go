package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-dashboard/internal/analytics"
	"restaurant-dashboard/internal/dataset"
	"restaurant-dashboard/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider is a mock implementation of dataset.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Tables(ctx context.Context) (*dataset.Tables, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataset.Tables), args.Error(1)
}

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testTables() *dataset.Tables {
	return &dataset.Tables{
		ID:       uuid.New(),
		LoadedAt: time.Now(),
		Menu: []model.Dish{
			{ID: 1, Name: "Burger", Category: "Main", Price: 10},
			{ID: 2, Name: "Brownie", Category: "Dessert", Price: 5},
		},
		Sales: []model.SaleRecord{
			{Date: day("2024-01-01"), Hour: 12, DishID: 1, Quantity: 2, TotalPrice: 20},
			{Date: day("2024-01-01"), Hour: 13, DishID: 2, Quantity: 4, TotalPrice: 20},
			{Date: day("2024-01-02"), Hour: 12, DishID: 99, Quantity: 1, TotalPrice: 7},
			{Date: day("2024-01-02"), Hour: 19, DishID: 1, Quantity: 1, TotalPrice: 12},
		},
		Expenses: []model.ExpenseRecord{
			{Date: day("2024-01-01"), Category: "Rent", Amount: 30},
			{Date: day("2024-01-03"), Category: "Labor", Amount: 10},
		},
	}
}

func newTestService(t *testing.T, tables *dataset.Tables, err error) (MetricsService, *MockProvider) {
	t.Helper()
	provider := new(MockProvider)
	if tables != nil || err != nil {
		provider.On("Tables", mock.Anything).Return(tables, err)
	}
	return NewMetricsService(provider, zerolog.Nop()), provider
}

func TestMetricsService_SummaryKPIs(t *testing.T) {
	svc, provider := newTestService(t, testTables(), nil)

	kpis, err := svc.SummaryKPIs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, kpis.TotalOrders)
	assert.InDelta(t, 59.0, kpis.TotalRevenue, 1e-9)
	assert.InDelta(t, 59.0/4, kpis.AvgOrderValue, 1e-9)
	assert.Equal(t, "Brownie", kpis.BestSeller)
	assert.Equal(t, 1, kpis.Dropped)
	provider.AssertExpectations(t)
}

func TestMetricsService_DailySeries(t *testing.T) {
	svc, _ := newTestService(t, testTables(), nil)
	ctx := context.Background()

	revenue, err := svc.DailyRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, revenue.Len())

	v, ok := revenue.Value("2024-01-02")
	require.True(t, ok)
	assert.Equal(t, 19.0, v)

	expenses, err := svc.DailyExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, expenses.Len())

	profit, err := svc.NetProfit(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, profit.Len())
	assert.Equal(t, 10.0, profit.Points[0].Value)
	assert.Equal(t, 19.0, profit.Points[1].Value)
	assert.Equal(t, -10.0, profit.Points[2].Value)

	quantity, err := svc.DailyQuantity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6.0, quantity.Points[0].Value)
}

func TestMetricsService_CategoryBreakdown(t *testing.T) {
	svc, _ := newTestService(t, testTables(), nil)

	series, err := svc.CategoryBreakdown(context.Background(), model.MeasureTotalPrice)
	require.NoError(t, err)

	require.Equal(t, 2, series.Len())
	assert.Equal(t, "Main", series.Points[0].Key.String())
	assert.Equal(t, 32.0, series.Points[0].Value)
	assert.Equal(t, 1, series.Dropped)
}

func TestMetricsService_InvalidMeasureSkipsLoad(t *testing.T) {
	svc, provider := newTestService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.CategoryBreakdown(ctx, model.MeasureAmount)
	assert.ErrorIs(t, err, model.ErrInvalidQuery)

	_, err = svc.CategoryDishes(ctx, "weight")
	assert.ErrorIs(t, err, model.ErrInvalidQuery)

	_, err = svc.TopDishes(ctx, model.MeasureQuantity, 0)
	assert.ErrorIs(t, err, model.ErrInvalidTopN)

	provider.AssertNotCalled(t, "Tables", mock.Anything)
}

func TestMetricsService_TopDishes(t *testing.T) {
	svc, _ := newTestService(t, testTables(), nil)

	top, err := svc.TopDishes(context.Background(), model.MeasureQuantity, 1)
	require.NoError(t, err)

	require.Equal(t, 1, top.Len())
	assert.Equal(t, "Brownie", top.Points[0].Key.String())
	assert.Equal(t, 1, top.Dropped)
}

func TestMetricsService_OtherViews(t *testing.T) {
	svc, _ := newTestService(t, testTables(), nil)
	ctx := context.Background()

	hourly, err := svc.HourlyDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, hourly.Len())

	hm, err := svc.DayHourHeatmap(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 7*24, hm.CellCount())

	stats, err := svc.DishPerformance(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, 2)

	nodes, err := svc.CategoryDishes(ctx, model.MeasureQuantity)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)

	breakdown, err := svc.ExpenseBreakdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Rent", breakdown.Points[0].Key.String())

	mismatches, err := svc.PriceConsistency(ctx)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, 3, mismatches[0].Row)
}

func TestMetricsService_Query(t *testing.T) {
	svc, _ := newTestService(t, testTables(), nil)
	ctx := context.Background()

	q := analytics.Query{
		GroupBy: []model.Dimension{model.DimensionCategory, model.DimensionHour},
		Measure: model.MeasureQuantity,
		Op:      model.OpSum,
		Order:   analytics.OrderByValue,
	}

	series, err := svc.Query(ctx, model.DatasetSales, q, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, series.Len())
	assert.Equal(t, "Dessert / 13", series.Points[0].Key.String())
	assert.Equal(t, 1, series.Dropped)

	top, err := svc.Query(ctx, model.DatasetSales, q, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, top.Len())

	count, err := svc.Query(ctx, model.DatasetExpenses, analytics.Query{
		GroupBy: []model.Dimension{model.DimensionDayOfWeek},
		Op:      model.OpCount,
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, count.Len())

	_, err = svc.Query(ctx, model.DatasetMenu, q, 0)
	assert.ErrorIs(t, err, model.ErrInvalidQuery)

	_, err = svc.Query(ctx, model.DatasetSales, q, -1)
	assert.ErrorIs(t, err, model.ErrInvalidTopN)
}

func TestMetricsService_LoadFailure(t *testing.T) {
	notFound := &model.DataNotFoundError{Dataset: model.DatasetSales, Location: "data/sales.csv"}
	svc, _ := newTestService(t, nil, notFound)

	_, err := svc.SummaryKPIs(context.Background())
	require.Error(t, err)

	var target *model.DataNotFoundError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "data/sales.csv", target.Location)
}
