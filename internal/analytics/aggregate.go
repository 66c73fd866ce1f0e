package analytics

import (
	"sort"
	"strings"

	"restaurant-dashboard/internal/model"

	"github.com/samber/lo"
)

// Order selects how GroupAndSum sorts its output.
type Order int

const (
	// OrderByKey sorts ascending by group key.
	OrderByKey Order = iota
	// OrderByValue sorts descending by value; equal values keep the order
	// in which their group first appeared in the input.
	OrderByValue
)

// ParseOrder converts "key" or "value" into an Order. Empty means OrderByKey.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "key":
		return OrderByKey, nil
	case "value":
		return OrderByValue, nil
	}
	return OrderByKey, model.InvalidQueryError("unknown order %q (must be key or value)", s)
}

// Query describes one group-and-reduce pass.
type Query struct {
	GroupBy []model.Dimension
	Measure model.Measure
	Op      model.Op
	Order   Order
}

// Validate checks the query before any record is touched.
func (q Query) Validate() error {
	if len(q.GroupBy) == 0 {
		return model.InvalidQueryError("at least one group-by dimension is required")
	}
	for _, d := range q.GroupBy {
		if _, err := model.ParseDimension(string(d)); err != nil {
			return model.InvalidQueryError("%v", err)
		}
	}
	if dup := lo.FindDuplicates(q.GroupBy); len(dup) > 0 {
		return model.InvalidQueryError("dimension %q requested more than once", dup[0])
	}
	if _, err := model.ParseOp(string(q.Op)); err != nil {
		return model.InvalidQueryError("%v", err)
	}
	if q.Op != model.OpCount {
		if _, err := model.ParseMeasure(string(q.Measure)); err != nil {
			return model.InvalidQueryError("%v", err)
		}
	}
	if q.Order != OrderByKey && q.Order != OrderByValue {
		return model.InvalidQueryError("unknown order %d", q.Order)
	}
	return nil
}

type bucket struct {
	key   model.Key
	sum   float64
	count int
}

func (b *bucket) value(op model.Op) float64 {
	switch op {
	case model.OpCount:
		return float64(b.count)
	case model.OpMean:
		if b.count == 0 {
			return 0
		}
		return b.sum / float64(b.count)
	}
	return b.sum
}

// GroupAndSum buckets records by the requested dimensions and reduces each
// bucket with the query op.
//
// A record missing any group dimension is skipped. For sum and mean a record
// that does not carry the measure is skipped too; count only needs the key.
// An empty input yields an empty series.
func GroupAndSum[F model.Fact](records []F, q Query) (model.Series, error) {
	if err := q.Validate(); err != nil {
		return model.Series{}, err
	}

	buckets := make(map[string]*bucket)
	// first-appearance order, used as the tie-break for value ordering
	order := make([]*bucket, 0)

	for _, r := range records {
		key, ok := keyOf(r, q.GroupBy)
		if !ok {
			continue
		}

		var v float64
		if q.Op != model.OpCount {
			measured, present := r.MeasureValue(q.Measure).Get()
			if !present {
				continue
			}
			v = measured
		}

		id := strings.Join(key.Labels(), "\x1f")
		b, exists := buckets[id]
		if !exists {
			b = &bucket{key: key}
			buckets[id] = b
			order = append(order, b)
		}
		b.sum += v
		b.count++
	}

	points := make([]model.Point, len(order))
	for i, b := range order {
		points[i] = model.Point{Key: b.key, Value: b.value(q.Op)}
	}

	switch q.Order {
	case OrderByValue:
		sortByValue(points)
	default:
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Key.Less(points[j].Key)
		})
	}

	return model.Series{
		Dimensions: append([]model.Dimension(nil), q.GroupBy...),
		Measure:    q.Measure,
		Op:         q.Op,
		Points:     points,
	}, nil
}

func keyOf[F model.Fact](r F, dims []model.Dimension) (model.Key, bool) {
	key := make(model.Key, len(dims))
	for i, d := range dims {
		part, ok := r.DimensionValue(d).Get()
		if !ok {
			return nil, false
		}
		key[i] = part
	}
	return key, true
}

// sortByValue orders points descending by value, stable by input order.
func sortByValue(points []model.Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value > points[j].Value
	})
}
