package model

// Point is one (key, value) pair of a derived series.
type Point struct {
	Key   Key     `json:"key"`
	Value float64 `json:"value"`
}

// Series is an ordered sequence of aggregated points.
type Series struct {
	Dimensions []Dimension `json:"dimensions"`
	Measure    Measure     `json:"measure"`
	Op         Op          `json:"op"`
	Points     []Point     `json:"points"`

	// Dropped counts sales rows excluded because their dish id did not resolve.
	Dropped int `json:"dropped"`
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Points)
}

// Value looks a point up by its joined key label.
func (s Series) Value(key string) (float64, bool) {
	for _, p := range s.Points {
		if p.Key.String() == key {
			return p.Value, true
		}
	}
	return 0, false
}

// Total sums every point value.
func (s Series) Total() float64 {
	var total float64
	for _, p := range s.Points {
		total += p.Value
	}
	return total
}

// Heatmap is a zero-filled day-of-week by hour matrix.
type Heatmap struct {
	Days  []string `json:"days"`
	Hours []int    `json:"hours"`

	// Cells is indexed [day][hour position], with days in Weekdays order.
	Cells [][]float64 `json:"cells"`
}

// Value returns the cell for a weekday label and hour.
func (h Heatmap) Value(day string, hour int) (float64, bool) {
	for i, d := range h.Days {
		if d != day {
			continue
		}
		for j, hr := range h.Hours {
			if hr == hour {
				return h.Cells[i][j], true
			}
		}
	}
	return 0, false
}

// CellCount returns the number of cells in the matrix.
func (h Heatmap) CellCount() int {
	return len(h.Days) * len(h.Hours)
}

// KPIs are the headline numbers of the overview page.
type KPIs struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalOrders   int     `json:"totalOrders"`
	AvgOrderValue float64 `json:"avgOrderValue"`
	BestSeller    string  `json:"bestSeller"`
	Dropped       int     `json:"dropped"`
}

// PriceMismatch is a sale whose recorded total disagrees with quantity times menu price.
type PriceMismatch struct {
	Row      int     `json:"row"`
	DishID   int     `json:"dishId"`
	Recorded float64 `json:"recorded"`
	Expected float64 `json:"expected"`
}
