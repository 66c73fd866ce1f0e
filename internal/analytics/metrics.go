package analytics

import (
	"sort"

	"restaurant-dashboard/internal/model"

	"github.com/samber/lo"
)

func sumBy(dims []model.Dimension, measure model.Measure, order Order) Query {
	return Query{GroupBy: dims, Measure: measure, Op: model.OpSum, Order: order}
}

var (
	byDate       = []model.Dimension{model.DimensionDate}
	byHour       = []model.Dimension{model.DimensionHour}
	byCategory   = []model.Dimension{model.DimensionCategory}
	byDishName   = []model.Dimension{model.DimensionDishName}
	byDayHour    = []model.Dimension{model.DimensionDayOfWeek, model.DimensionHour}
	byCatAndDish = []model.Dimension{model.DimensionCategory, model.DimensionDishName}
)

// SalesMeasure rejects measures that sales records do not carry.
func SalesMeasure(m model.Measure) error {
	if m != model.MeasureQuantity && m != model.MeasureTotalPrice {
		return model.InvalidQueryError("measure %q is not recorded on sales (use quantity or total_price)", m)
	}
	return nil
}

// DailyRevenue sums total_price by date.
func DailyRevenue(sales []model.SaleRecord) model.Series {
	return lo.Must(GroupAndSum(sales, sumBy(byDate, model.MeasureTotalPrice, OrderByKey)))
}

// DailyQuantity sums items sold by date.
func DailyQuantity(sales []model.SaleRecord) model.Series {
	return lo.Must(GroupAndSum(sales, sumBy(byDate, model.MeasureQuantity, OrderByKey)))
}

// DailyExpenses sums amount by date.
func DailyExpenses(expenses []model.ExpenseRecord) model.Series {
	return lo.Must(GroupAndSum(expenses, sumBy(byDate, model.MeasureAmount, OrderByKey)))
}

// NetProfit combines a revenue and an expense series over the union of their
// dates. A date missing on one side counts as zero there.
func NetProfit(revenue, expenses model.Series) model.Series {
	type row struct {
		key      model.Key
		revenue  float64
		expenses float64
	}

	rows := make(map[string]*row)
	get := func(k model.Key) *row {
		id := k.String()
		r, ok := rows[id]
		if !ok {
			r = &row{key: k}
			rows[id] = r
		}
		return r
	}

	for _, p := range revenue.Points {
		get(p.Key).revenue += p.Value
	}
	for _, p := range expenses.Points {
		get(p.Key).expenses += p.Value
	}

	all := lo.Values(rows)
	sort.Slice(all, func(i, j int) bool {
		return all[i].key.Less(all[j].key)
	})

	return model.Series{
		Dimensions: byDate,
		Op:         model.OpSum,
		Points: lo.Map(all, func(r *row, _ int) model.Point {
			return model.Point{Key: r.key, Value: r.revenue - r.expenses}
		}),
	}
}

// CategoryBreakdown sums a sales measure by dish category, largest first.
// Equal totals keep the order in which their category first appears in sales.
func CategoryBreakdown(joined JoinResult, measure model.Measure) (model.Series, error) {
	if err := SalesMeasure(measure); err != nil {
		return model.Series{}, err
	}
	series, err := GroupAndSum(joined.Records, sumBy(byCategory, measure, OrderByValue))
	if err != nil {
		return model.Series{}, err
	}
	series.Dropped = joined.Dropped()
	return series, nil
}

// ExpenseBreakdown sums amount by expense category, largest first.
func ExpenseBreakdown(expenses []model.ExpenseRecord) model.Series {
	return lo.Must(GroupAndSum(expenses, sumBy(byCategory, model.MeasureAmount, OrderByValue)))
}

// TopDishes ranks dishes by a summed sales measure.
func TopDishes(joined JoinResult, measure model.Measure, n int) (model.Series, error) {
	if err := SalesMeasure(measure); err != nil {
		return model.Series{}, err
	}
	series, err := GroupAndSum(joined.Records, sumBy(byDishName, measure, OrderByValue))
	if err != nil {
		return model.Series{}, err
	}
	top, err := TopN(series, n)
	if err != nil {
		return model.Series{}, err
	}
	top.Dropped = joined.Dropped()
	return top, nil
}

// HourlyDistribution sums items sold by hour of day.
func HourlyDistribution(sales []model.SaleRecord) model.Series {
	return lo.Must(GroupAndSum(sales, sumBy(byHour, model.MeasureQuantity, OrderByKey)))
}

// DayHourHeatmap sums items sold by weekday and hour into a full matrix.
// Columns are the distinct hours observed in sales, or 0..23 when allHours
// is set. Combinations without sales are zero.
func DayHourHeatmap(sales []model.SaleRecord, allHours bool) model.Heatmap {
	series := lo.Must(GroupAndSum(sales, sumBy(byDayHour, model.MeasureQuantity, OrderByKey)))

	var hours []int
	if allHours {
		hours = lo.Range(24)
	} else {
		hours = lo.Uniq(lo.Map(sales, func(s model.SaleRecord, _ int) int { return s.Hour }))
		sort.Ints(hours)
	}

	column := make(map[int]int, len(hours))
	for i, h := range hours {
		column[h] = i
	}

	cells := make([][]float64, len(model.Weekdays))
	for i := range cells {
		cells[i] = make([]float64, len(hours))
	}

	for _, p := range series.Points {
		dayIdx, hour := p.Key[0].Rank, p.Key[1].Rank
		if col, ok := column[hour]; ok {
			cells[dayIdx][col] = p.Value
		}
	}

	return model.Heatmap{
		Days:  append([]string(nil), model.Weekdays...),
		Hours: hours,
		Cells: cells,
	}
}

// SummaryKPIs computes the overview numbers. Revenue and order count cover
// every sales row; the best seller comes from the joined sales.
func SummaryKPIs(sales []model.SaleRecord, joined JoinResult) model.KPIs {
	kpis := model.KPIs{
		TotalRevenue: lo.SumBy(sales, func(s model.SaleRecord) float64 { return s.TotalPrice }),
		TotalOrders:  len(sales),
		Dropped:      joined.Dropped(),
	}
	if kpis.TotalOrders > 0 {
		kpis.AvgOrderValue = kpis.TotalRevenue / float64(kpis.TotalOrders)
	}

	top := lo.Must(TopDishes(joined, model.MeasureQuantity, 1))
	if top.Len() > 0 {
		kpis.BestSeller = top.Points[0].Key[0].Label
	}
	return kpis
}

// DishPerformance reports quantity and revenue per dish with at least one
// sale, ordered by dish id.
func DishPerformance(joined JoinResult) []model.DishStat {
	byID := make(map[int]*model.DishStat)
	for _, r := range joined.Records {
		stat, ok := byID[r.DishID]
		if !ok {
			stat = &model.DishStat{
				DishID:   r.DishID,
				Name:     r.DishName,
				Category: r.Category,
				Price:    r.UnitPrice,
			}
			byID[r.DishID] = stat
		}
		stat.Quantity += float64(r.Quantity)
		stat.Revenue += r.TotalPrice
	}

	stats := lo.Map(lo.Values(byID), func(s *model.DishStat, _ int) model.DishStat { return *s })
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].DishID < stats[j].DishID
	})
	return stats
}

// CategoryDishes nests a summed sales measure as category -> dish, both in key order.
func CategoryDishes(joined JoinResult, measure model.Measure) ([]model.CategoryNode, error) {
	if err := SalesMeasure(measure); err != nil {
		return nil, err
	}
	series, err := GroupAndSum(joined.Records, sumBy(byCatAndDish, measure, OrderByKey))
	if err != nil {
		return nil, err
	}

	nodes := make([]model.CategoryNode, 0)
	for _, p := range series.Points {
		category := p.Key[0].Label
		if len(nodes) == 0 || nodes[len(nodes)-1].Category != category {
			nodes = append(nodes, model.CategoryNode{Category: category, Dishes: make([]model.Point, 0)})
		}
		node := &nodes[len(nodes)-1]
		node.Value += p.Value
		node.Dishes = append(node.Dishes, model.Point{Key: model.Key{p.Key[1]}, Value: p.Value})
	}
	return nodes, nil
}
