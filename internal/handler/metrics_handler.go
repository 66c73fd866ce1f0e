package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"restaurant-dashboard/internal/analytics"
	"restaurant-dashboard/internal/model"
	"restaurant-dashboard/internal/service"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// defaultTopN is the number of dishes returned by /dishes/top when n is omitted.
const defaultTopN = 10

// MetricsHandler handles the read-only analytics endpoints.
type MetricsHandler struct {
	service service.MetricsService
	logger  zerolog.Logger
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(service service.MetricsService, logger zerolog.Logger) *MetricsHandler {
	return &MetricsHandler{
		service: service,
		logger:  logger.With().Str("handler", "metrics").Logger(),
	}
}

// badParam writes a 400 INVALID_PARAMETER response.
func (h *MetricsHandler) badParam(w http.ResponseWriter, r *http.Request, format string, args ...any) {
	writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, fmt.Sprintf(format, args...), h.logger)
}

// measureParam reads the measure query parameter, falling back to def.
func measureParam(r *http.Request, def model.Measure) (model.Measure, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("measure"))
	if raw == "" {
		return def, nil
	}
	return model.ParseMeasure(raw)
}

// KPIs handles GET /api/metrics/kpis.
func (h *MetricsHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	kpis, err := h.service.SummaryKPIs(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	kpis.TotalRevenue = roundMoney(kpis.TotalRevenue)
	kpis.AvgOrderValue = roundMoney(kpis.AvgOrderValue)
	writeJSON(w, http.StatusOK, kpis)
}

// serveSeries writes the result of a parameterless series view.
func (h *MetricsHandler) serveSeries(w http.ResponseWriter, r *http.Request, view func(context.Context) (model.Series, error), money bool) {
	if !allowMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	series, err := view(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, presentSeries(series, money))
}

// DailyRevenue handles GET /api/metrics/revenue/daily.
func (h *MetricsHandler) DailyRevenue(w http.ResponseWriter, r *http.Request) {
	h.serveSeries(w, r, h.service.DailyRevenue, true)
}

// DailyExpenses handles GET /api/metrics/expenses/daily.
func (h *MetricsHandler) DailyExpenses(w http.ResponseWriter, r *http.Request) {
	h.serveSeries(w, r, h.service.DailyExpenses, true)
}

// NetProfit handles GET /api/metrics/profit/daily.
func (h *MetricsHandler) NetProfit(w http.ResponseWriter, r *http.Request) {
	h.serveSeries(w, r, h.service.NetProfit, true)
}

// DailyQuantity handles GET /api/metrics/quantity/daily.
func (h *MetricsHandler) DailyQuantity(w http.ResponseWriter, r *http.Request) {
	h.serveSeries(w, r, h.service.DailyQuantity, false)
}

// ExpenseBreakdown handles GET /api/metrics/expenses/categories.
func (h *MetricsHandler) ExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	h.serveSeries(w, r, h.service.ExpenseBreakdown, true)
}

// HourlyDistribution handles GET /api/metrics/hourly.
func (h *MetricsHandler) HourlyDistribution(w http.ResponseWriter, r *http.Request) {
	h.serveSeries(w, r, h.service.HourlyDistribution, false)
}

// CategoryBreakdown handles GET /api/metrics/categories?measure=.
func (h *MetricsHandler) CategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	measure, err := measureParam(r, model.MeasureTotalPrice)
	if err != nil {
		h.badParam(w, r, "invalid measure: %v", err)
		return
	}

	series, err := h.service.CategoryBreakdown(r.Context(), measure)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, presentSeries(series, isMoney(measure)))
}

// CategoryDishes handles GET /api/metrics/categories/dishes?measure=.
func (h *MetricsHandler) CategoryDishes(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	measure, err := measureParam(r, model.MeasureQuantity)
	if err != nil {
		h.badParam(w, r, "invalid measure: %v", err)
		return
	}

	nodes, err := h.service.CategoryDishes(r.Context(), measure)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if isMoney(measure) {
		nodes = lo.Map(nodes, func(n model.CategoryNode, _ int) model.CategoryNode {
			return model.CategoryNode{
				Category: n.Category,
				Value:    roundMoney(n.Value),
				Dishes: lo.Map(n.Dishes, func(p model.Point, _ int) model.Point {
					return model.Point{Key: p.Key, Value: roundMoney(p.Value)}
				}),
			}
		})
	}
	writeJSON(w, http.StatusOK, nodes)
}

// TopDishes handles GET /api/metrics/dishes/top?measure=&n=.
func (h *MetricsHandler) TopDishes(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	measure, err := measureParam(r, model.MeasureQuantity)
	if err != nil {
		h.badParam(w, r, "invalid measure: %v", err)
		return
	}

	n := defaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil {
			h.badParam(w, r, "invalid n %q: must be a positive integer", raw)
			return
		}
	}

	series, err := h.service.TopDishes(r.Context(), measure, n)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, presentSeries(series, isMoney(measure)))
}

// DishPerformance handles GET /api/metrics/dishes.
func (h *MetricsHandler) DishPerformance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	stats, err := h.service.DishPerformance(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	stats = lo.Map(stats, func(s model.DishStat, _ int) model.DishStat {
		s.Price = roundMoney(s.Price)
		s.Revenue = roundMoney(s.Revenue)
		return s
	})
	writeJSON(w, http.StatusOK, stats)
}

// Heatmap handles GET /api/metrics/heatmap?hours=all.
func (h *MetricsHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	var allHours bool
	switch hours := r.URL.Query().Get("hours"); hours {
	case "", "observed":
	case "all":
		allHours = true
	default:
		h.badParam(w, r, "invalid hours %q: must be observed or all", hours)
		return
	}

	heatmap, err := h.service.DayHourHeatmap(r.Context(), allHours)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, heatmap)
}

// Consistency handles GET /api/metrics/consistency.
func (h *MetricsHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	mismatches, err := h.service.PriceConsistency(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if mismatches == nil {
		mismatches = []model.PriceMismatch{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(mismatches),
		"mismatches": mismatches,
	})
}

// Query handles GET /api/metrics/query?dataset=&group_by=&measure=&op=&order=&limit=.
func (h *MetricsHandler) Query(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	params := r.URL.Query()

	ds, err := model.ParseDataset(params.Get("dataset"))
	if err != nil {
		h.badParam(w, r, "invalid dataset: %v", err)
		return
	}

	rawDims := lo.Compact(lo.Map(strings.Split(params.Get("group_by"), ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	if len(rawDims) == 0 {
		h.badParam(w, r, "group_by is required")
		return
	}
	dims := make([]model.Dimension, 0, len(rawDims))
	for _, raw := range rawDims {
		d, err := model.ParseDimension(raw)
		if err != nil {
			h.badParam(w, r, "invalid group_by: %v", err)
			return
		}
		dims = append(dims, d)
	}

	op := model.OpSum
	if raw := params.Get("op"); raw != "" {
		if op, err = model.ParseOp(raw); err != nil {
			h.badParam(w, r, "invalid op: %v", err)
			return
		}
	}

	var measure model.Measure
	if raw := params.Get("measure"); raw != "" {
		if measure, err = model.ParseMeasure(raw); err != nil {
			h.badParam(w, r, "invalid measure: %v", err)
			return
		}
	}

	order, err := analytics.ParseOrder(params.Get("order"))
	if err != nil {
		h.badParam(w, r, "invalid order: %v", err)
		return
	}

	limit := 0
	if raw := params.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			h.badParam(w, r, "invalid limit %q: must be a non-negative integer", raw)
			return
		}
	}

	q := analytics.Query{
		GroupBy: dims,
		Measure: measure,
		Op:      op,
		Order:   order,
	}

	series, err := h.service.Query(r.Context(), ds, q, limit)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, presentSeries(series, isMoney(measure)))
}
