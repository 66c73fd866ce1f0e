package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
)

// DateLayout is the calendar-day format used by every source table.
const DateLayout = "2006-01-02"

// Dimension is an attribute used to bucket records before aggregating.
type Dimension string

const (
	DimensionDate      Dimension = "date"
	DimensionHour      Dimension = "hour"
	DimensionCategory  Dimension = "category"
	DimensionDishName  Dimension = "dish_name"
	DimensionDayOfWeek Dimension = "day_of_week"
)

// ParseDimension converts a raw identifier into a Dimension.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimensionDate, DimensionHour, DimensionCategory, DimensionDishName, DimensionDayOfWeek:
		return Dimension(s), nil
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// Measure is the numeric column being aggregated.
type Measure string

const (
	MeasureQuantity   Measure = "quantity"
	MeasureTotalPrice Measure = "total_price"
	MeasureAmount     Measure = "amount"
)

// ParseMeasure converts a raw identifier into a Measure.
func ParseMeasure(s string) (Measure, error) {
	switch Measure(s) {
	case MeasureQuantity, MeasureTotalPrice, MeasureAmount:
		return Measure(s), nil
	}
	return "", fmt.Errorf("unknown measure %q", s)
}

// Op is the reduction applied to each group.
type Op string

const (
	OpSum   Op = "sum"
	OpCount Op = "count"
	OpMean  Op = "mean"
)

// ParseOp converts a raw identifier into an Op.
func ParseOp(s string) (Op, error) {
	switch Op(s) {
	case OpSum, OpCount, OpMean:
		return Op(s), nil
	}
	return "", fmt.Errorf("unknown op %q", s)
}

// Weekdays holds the canonical day-of-week labels, Monday first.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// KeyPart is one component of a group key. Parts of ordinal dimensions
// (hour, day of week) order by Rank; all others order by Label.
type KeyPart struct {
	Dimension Dimension `json:"dimension"`
	Label     string    `json:"label"`
	Rank      int       `json:"-"`
}

func (p KeyPart) less(o KeyPart) bool {
	if p.Rank != o.Rank {
		return p.Rank < o.Rank
	}
	return p.Label < o.Label
}

// DateKey buckets a calendar day.
func DateKey(t time.Time) KeyPart {
	return KeyPart{Dimension: DimensionDate, Label: t.Format(DateLayout)}
}

// HourKey buckets an hour of day.
func HourKey(hour int) KeyPart {
	return KeyPart{Dimension: DimensionHour, Label: fmt.Sprintf("%d", hour), Rank: hour}
}

// DayOfWeekKey buckets a calendar day by weekday, Monday ranked first.
func DayOfWeekKey(t time.Time) KeyPart {
	idx := (int(t.Weekday()) + 6) % 7
	return KeyPart{Dimension: DimensionDayOfWeek, Label: Weekdays[idx], Rank: idx}
}

// textKey buckets a free-text attribute; an empty value is treated as missing.
func textKey(d Dimension, s string) mo.Option[KeyPart] {
	if strings.TrimSpace(s) == "" {
		return mo.None[KeyPart]()
	}
	return mo.Some(KeyPart{Dimension: d, Label: s})
}

// Key is a composite group key in the order the dimensions were requested.
type Key []KeyPart

// String joins the part labels, e.g. "Monday / 12".
func (k Key) String() string {
	labels := make([]string, len(k))
	for i, p := range k {
		labels[i] = p.Label
	}
	return strings.Join(labels, " / ")
}

// Labels returns the part labels in order.
func (k Key) Labels() []string {
	labels := make([]string, len(k))
	for i, p := range k {
		labels[i] = p.Label
	}
	return labels
}

// Less orders keys part by part.
func (k Key) Less(o Key) bool {
	for i := 0; i < len(k) && i < len(o); i++ {
		if k[i].less(o[i]) {
			return true
		}
		if o[i].less(k[i]) {
			return false
		}
	}
	return len(k) < len(o)
}

// Fact is a record that can be grouped and measured.
type Fact interface {
	// DimensionValue returns the key part for d, or None when the record has no value on it.
	DimensionValue(d Dimension) mo.Option[KeyPart]

	// MeasureValue returns the numeric value of m, or None when the record does not carry it.
	MeasureValue(m Measure) mo.Option[float64]
}
