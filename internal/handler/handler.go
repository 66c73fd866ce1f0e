package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"restaurant-dashboard/internal/middleware"
	"restaurant-dashboard/internal/model"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// moneyPlaces is the number of decimal places monetary values are shown with.
const moneyPlaces = 2

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	requestID := middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("request_id", requestID).
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestID,
	})
}

// writeServiceError maps an error returned by the metrics service onto a response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var (
		notFound  *model.DataNotFoundError
		schemaErr *model.SchemaError
		domainErr *model.DomainError
	)

	switch {
	case errors.As(err, &notFound):
		writeError(w, r, http.StatusServiceUnavailable, model.ErrCodeDataNotFound, notFound.Error(), logger)
	case errors.As(err, &schemaErr):
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeSchema, schemaErr.Error(), logger)
	case errors.As(err, &domainErr):
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), logger)
	default:
		logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("unexpected service error")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
	}
}

// roundMoney rounds a monetary value to cents for display.
func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(moneyPlaces).InexactFloat64()
}

// presentSeries rounds the point values of a monetary series. The input is not modified.
func presentSeries(s model.Series, money bool) model.Series {
	if !money || s.Op == model.OpCount {
		return s
	}
	out := s
	out.Points = lo.Map(s.Points, func(p model.Point, _ int) model.Point {
		return model.Point{Key: p.Key, Value: roundMoney(p.Value)}
	})
	return out
}

// isMoney reports whether a measure is a currency amount.
func isMoney(m model.Measure) bool {
	return m == model.MeasureTotalPrice || m == model.MeasureAmount
}

// allowMethod writes 405 and returns false when r does not use method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string, logger zerolog.Logger) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidParameter, "method not allowed", logger)
	return false
}
