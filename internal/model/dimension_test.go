package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDayOfWeekKey(t *testing.T) {
	tests := []struct {
		date     string
		expected string
		rank     int
	}{
		{date: "2024-01-01", expected: "Monday", rank: 0},
		{date: "2024-01-03", expected: "Wednesday", rank: 2},
		{date: "2024-01-07", expected: "Sunday", rank: 6},
		{date: "2000-02-29", expected: "Tuesday", rank: 1},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			key := DayOfWeekKey(day(tt.date))
			assert.Equal(t, tt.expected, key.Label)
			assert.Equal(t, tt.rank, key.Rank)
			assert.Equal(t, DimensionDayOfWeek, key.Dimension)
		})
	}
}

func TestKey_Less(t *testing.T) {
	// hours compare numerically, not lexically
	assert.True(t, Key{HourKey(9)}.Less(Key{HourKey(10)}))
	assert.False(t, Key{HourKey(10)}.Less(Key{HourKey(9)}))

	// weekdays compare by calendar position
	assert.True(t, Key{DayOfWeekKey(day("2024-01-01"))}.Less(Key{DayOfWeekKey(day("2024-01-07"))}))

	// dates compare by ISO label
	assert.True(t, Key{DateKey(day("2023-12-31"))}.Less(Key{DateKey(day("2024-01-01"))}))

	// composite keys compare part by part
	a := Key{DayOfWeekKey(day("2024-01-01")), HourKey(22)}
	b := Key{DayOfWeekKey(day("2024-01-02")), HourKey(11)}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestKey_String(t *testing.T) {
	key := Key{DayOfWeekKey(day("2024-01-01")), HourKey(12)}
	assert.Equal(t, "Monday / 12", key.String())
	assert.Equal(t, []string{"Monday", "12"}, key.Labels())
}

func TestParseIdentifiers(t *testing.T) {
	d, err := ParseDimension("day_of_week")
	require.NoError(t, err)
	assert.Equal(t, DimensionDayOfWeek, d)

	_, err = ParseDimension("weekday")
	assert.Error(t, err)

	m, err := ParseMeasure("total_price")
	require.NoError(t, err)
	assert.Equal(t, MeasureTotalPrice, m)

	_, err = ParseMeasure("price")
	assert.Error(t, err)

	op, err := ParseOp("mean")
	require.NoError(t, err)
	assert.Equal(t, OpMean, op)

	_, err = ParseOp("median")
	assert.Error(t, err)

	ds, err := ParseDataset("expenses")
	require.NoError(t, err)
	assert.Equal(t, "expenses.csv", ds.FileName())

	_, err = ParseDataset("inventory")
	assert.Error(t, err)
}

func TestFacts(t *testing.T) {
	sale := SaleRecord{Date: day("2024-01-01"), Hour: 12, DishID: 1, Quantity: 2, TotalPrice: 20}

	assert.True(t, sale.DimensionValue(DimensionDate).IsPresent())
	assert.True(t, sale.DimensionValue(DimensionCategory).IsAbsent())
	assert.Equal(t, 2.0, sale.MeasureValue(MeasureQuantity).OrEmpty())
	assert.True(t, sale.MeasureValue(MeasureAmount).IsAbsent())

	enriched := EnrichedSale{SaleRecord: sale, DishName: "Burger", Category: "Main", UnitPrice: 10}
	assert.Equal(t, "Burger", enriched.DimensionValue(DimensionDishName).MustGet().Label)
	assert.Equal(t, "12", enriched.DimensionValue(DimensionHour).MustGet().Label)
	assert.Equal(t, 20.0, enriched.MeasureValue(MeasureTotalPrice).OrEmpty())

	enriched.Category = " "
	assert.True(t, enriched.DimensionValue(DimensionCategory).IsAbsent())

	expense := ExpenseRecord{Date: day("2024-01-01"), Category: "Rent", Amount: 200}
	assert.Equal(t, "Rent", expense.DimensionValue(DimensionCategory).MustGet().Label)
	assert.True(t, expense.DimensionValue(DimensionHour).IsAbsent())
	assert.Equal(t, 200.0, expense.MeasureValue(MeasureAmount).OrEmpty())
	assert.True(t, expense.MeasureValue(MeasureQuantity).IsAbsent())
}
