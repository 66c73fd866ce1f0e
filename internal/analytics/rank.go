package analytics

import (
	"restaurant-dashboard/internal/model"
)

// TopN returns the n highest-valued points of series, descending.
//
// Ties keep their relative order from the input series (stable by input
// order), so the result is deterministic for a given input. If n exceeds the
// series length the whole series is returned, reordered. The input is not
// modified.
func TopN(series model.Series, n int) (model.Series, error) {
	if n <= 0 {
		return model.Series{}, model.ErrInvalidTopN
	}

	points := make([]model.Point, len(series.Points))
	copy(points, series.Points)
	sortByValue(points)

	if n < len(points) {
		points = points[:n]
	}

	ranked := series
	ranked.Points = points
	return ranked, nil
}
