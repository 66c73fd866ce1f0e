package analytics

import (
	"math"

	"restaurant-dashboard/internal/model"
)

// priceTolerance bounds the accepted drift between a recorded total and quantity × price.
const priceTolerance = 1e-6

// JoinResult holds the enriched sales and the rows dropped on the way.
type JoinResult struct {
	Records  []model.EnrichedSale
	Warnings []model.ReferentialIntegrityError
}

// Dropped returns the number of sales that did not match a dish.
func (r JoinResult) Dropped() int {
	return len(r.Warnings)
}

// indexMenu maps dish ids to dishes. On duplicate ids the first entry wins.
func indexMenu(menu []model.Dish) map[int]model.Dish {
	byID := make(map[int]model.Dish, len(menu))
	for _, d := range menu {
		if _, exists := byID[d.ID]; !exists {
			byID[d.ID] = d
		}
	}
	return byID
}

// Join inner-joins sales with the menu on dish id.
// Sales whose dish id is unknown are dropped and reported as warnings,
// in input order, with their 0-based row index.
func Join(sales []model.SaleRecord, menu []model.Dish) JoinResult {
	byID := indexMenu(menu)

	result := JoinResult{
		Records: make([]model.EnrichedSale, 0, len(sales)),
	}

	for i, s := range sales {
		dish, ok := byID[s.DishID]
		if !ok {
			result.Warnings = append(result.Warnings, model.ReferentialIntegrityError{Row: i, DishID: s.DishID})
			continue
		}
		result.Records = append(result.Records, model.EnrichedSale{
			SaleRecord: s,
			DishName:   dish.Name,
			Category:   dish.Category,
			UnitPrice:  dish.Price,
		})
	}

	return result
}

// PriceMismatches lists sales whose recorded total differs from quantity × menu price.
// Sales with an unknown dish are not checked; Join reports those.
func PriceMismatches(sales []model.SaleRecord, menu []model.Dish) []model.PriceMismatch {
	byID := indexMenu(menu)

	mismatches := make([]model.PriceMismatch, 0)
	for i, s := range sales {
		dish, ok := byID[s.DishID]
		if !ok {
			continue
		}
		expected := float64(s.Quantity) * dish.Price
		if math.Abs(expected-s.TotalPrice) > priceTolerance {
			mismatches = append(mismatches, model.PriceMismatch{
				Row:      i,
				DishID:   s.DishID,
				Recorded: s.TotalPrice,
				Expected: expected,
			})
		}
	}
	return mismatches
}
