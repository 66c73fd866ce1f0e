package router

import (
	"net/http"

	"restaurant-dashboard/internal/handler"
	"restaurant-dashboard/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	metricsHandler *handler.MetricsHandler,
	adminHandler *handler.AdminHandler,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handler.Health)

	// Metrics routes
	mux.HandleFunc("/api/metrics/kpis", metricsHandler.KPIs)
	mux.HandleFunc("/api/metrics/revenue/daily", metricsHandler.DailyRevenue)
	mux.HandleFunc("/api/metrics/expenses/daily", metricsHandler.DailyExpenses)
	mux.HandleFunc("/api/metrics/expenses/categories", metricsHandler.ExpenseBreakdown)
	mux.HandleFunc("/api/metrics/profit/daily", metricsHandler.NetProfit)
	mux.HandleFunc("/api/metrics/quantity/daily", metricsHandler.DailyQuantity)
	mux.HandleFunc("/api/metrics/categories", metricsHandler.CategoryBreakdown)
	mux.HandleFunc("/api/metrics/categories/dishes", metricsHandler.CategoryDishes)
	mux.HandleFunc("/api/metrics/dishes", metricsHandler.DishPerformance)
	mux.HandleFunc("/api/metrics/dishes/top", metricsHandler.TopDishes)
	mux.HandleFunc("/api/metrics/hourly", metricsHandler.HourlyDistribution)
	mux.HandleFunc("/api/metrics/heatmap", metricsHandler.Heatmap)
	mux.HandleFunc("/api/metrics/consistency", metricsHandler.Consistency)
	mux.HandleFunc("/api/metrics/query", metricsHandler.Query)

	// Admin routes
	mux.HandleFunc("/api/admin/refresh", adminHandler.Refresh)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	return h
}
