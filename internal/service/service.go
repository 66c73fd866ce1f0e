package service

import (
	"context"

	"restaurant-dashboard/internal/analytics"
	"restaurant-dashboard/internal/model"
)

// MetricsService exposes the named analytics views. It is the only surface the
// presentation layer uses.
type MetricsService interface {
	// SummaryKPIs returns total revenue, order count, average order value and best seller.
	SummaryKPIs(ctx context.Context) (model.KPIs, error)

	// DailyRevenue sums total_price by date.
	DailyRevenue(ctx context.Context) (model.Series, error)

	// DailyExpenses sums expense amount by date.
	DailyExpenses(ctx context.Context) (model.Series, error)

	// NetProfit is revenue minus expenses over the union of their dates.
	NetProfit(ctx context.Context) (model.Series, error)

	// DailyQuantity sums items sold by date.
	DailyQuantity(ctx context.Context) (model.Series, error)

	// CategoryBreakdown sums a sales measure by dish category.
	CategoryBreakdown(ctx context.Context, measure model.Measure) (model.Series, error)

	// CategoryDishes nests a sales measure by category and dish.
	CategoryDishes(ctx context.Context, measure model.Measure) ([]model.CategoryNode, error)

	// ExpenseBreakdown sums expense amount by category.
	ExpenseBreakdown(ctx context.Context) (model.Series, error)

	// TopDishes ranks dishes by a sales measure.
	TopDishes(ctx context.Context, measure model.Measure, n int) (model.Series, error)

	// DishPerformance reports per-dish quantity and revenue.
	DishPerformance(ctx context.Context) ([]model.DishStat, error)

	// HourlyDistribution sums items sold by hour.
	HourlyDistribution(ctx context.Context) (model.Series, error)

	// DayHourHeatmap sums items sold by weekday and hour into a zero-filled matrix.
	DayHourHeatmap(ctx context.Context, allHours bool) (model.Heatmap, error)

	// PriceConsistency lists sales whose total disagrees with quantity times menu price.
	PriceConsistency(ctx context.Context) ([]model.PriceMismatch, error)

	// Query runs an ad-hoc aggregation over sales (joined with the menu) or
	// expenses. A positive limit keeps only the top entries by value.
	Query(ctx context.Context, dataset model.Dataset, q analytics.Query, limit int) (model.Series, error)
}
