package model

import (
	"time"

	"github.com/samber/mo"
)

// SaleRecord represents one sales transaction line.
// TotalPrice is stored as recorded, not recomputed from the menu.
type SaleRecord struct {
	Date       time.Time `json:"date"`
	Hour       int       `json:"hour"`
	DishID     int       `json:"dishId"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"totalPrice"`
}

// DimensionValue implements Fact.
func (s SaleRecord) DimensionValue(d Dimension) mo.Option[KeyPart] {
	switch d {
	case DimensionDate:
		return mo.Some(DateKey(s.Date))
	case DimensionHour:
		return mo.Some(HourKey(s.Hour))
	case DimensionDayOfWeek:
		return mo.Some(DayOfWeekKey(s.Date))
	}
	return mo.None[KeyPart]()
}

// MeasureValue implements Fact.
func (s SaleRecord) MeasureValue(m Measure) mo.Option[float64] {
	switch m {
	case MeasureQuantity:
		return mo.Some(float64(s.Quantity))
	case MeasureTotalPrice:
		return mo.Some(s.TotalPrice)
	}
	return mo.None[float64]()
}

// EnrichedSale is a sale joined with its dish.
type EnrichedSale struct {
	SaleRecord
	DishName  string  `json:"dishName"`
	Category  string  `json:"category"`
	UnitPrice float64 `json:"unitPrice"`
}

// DimensionValue implements Fact.
func (s EnrichedSale) DimensionValue(d Dimension) mo.Option[KeyPart] {
	switch d {
	case DimensionCategory:
		return textKey(DimensionCategory, s.Category)
	case DimensionDishName:
		return textKey(DimensionDishName, s.DishName)
	}
	return s.SaleRecord.DimensionValue(d)
}

// ExpenseRecord represents one ledger entry.
type ExpenseRecord struct {
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
}

// Expense categories produced by the fixture generator.
var ExpenseCategories = []string{"Ingredients", "Labor", "Rent", "Utilities", "Marketing"}

// DimensionValue implements Fact.
func (e ExpenseRecord) DimensionValue(d Dimension) mo.Option[KeyPart] {
	switch d {
	case DimensionDate:
		return mo.Some(DateKey(e.Date))
	case DimensionDayOfWeek:
		return mo.Some(DayOfWeekKey(e.Date))
	case DimensionCategory:
		return textKey(DimensionCategory, e.Category)
	}
	return mo.None[KeyPart]()
}

// MeasureValue implements Fact.
func (e ExpenseRecord) MeasureValue(m Measure) mo.Option[float64] {
	if m == MeasureAmount {
		return mo.Some(e.Amount)
	}
	return mo.None[float64]()
}
