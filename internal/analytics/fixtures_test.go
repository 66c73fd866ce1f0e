package analytics

import (
	"time"

	"restaurant-dashboard/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sale(date string, hour, dishID, qty int, total float64) model.SaleRecord {
	return model.SaleRecord{Date: day(date), Hour: hour, DishID: dishID, Quantity: qty, TotalPrice: total}
}

func expense(date, category string, amount float64) model.ExpenseRecord {
	return model.ExpenseRecord{Date: day(date), Category: category, Amount: amount}
}

func testMenu() []model.Dish {
	return []model.Dish{
		{ID: 1, Name: "Burger", Category: model.CategoryMain, Price: 10},
		{ID: 2, Name: "Fries", Category: model.CategoryAppetizer, Price: 4},
		{ID: 3, Name: "Brownie", Category: model.CategoryDessert, Price: 6},
		{ID: 4, Name: "Steak", Category: model.CategoryMain, Price: 25},
	}
}

// testSales spans three days, two of them a Monday and a Tuesday.
func testSales() []model.SaleRecord {
	return []model.SaleRecord{
		sale("2024-01-01", 12, 1, 2, 20),
		sale("2024-01-01", 13, 2, 3, 12),
		sale("2024-01-01", 19, 4, 1, 25),
		sale("2024-01-02", 12, 1, 1, 10),
		sale("2024-01-02", 20, 3, 4, 24),
		sale("2024-01-04", 12, 2, 5, 20),
		sale("2024-01-04", 21, 1, 3, 30),
	}
}

func testExpenses() []model.ExpenseRecord {
	return []model.ExpenseRecord{
		expense("2024-01-01", "Ingredients", 30),
		expense("2024-01-01", "Labor", 20),
		expense("2024-01-03", "Rent", 100),
		expense("2024-01-04", "Ingredients", 15),
	}
}
