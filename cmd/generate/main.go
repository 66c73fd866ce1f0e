package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"restaurant-dashboard/internal/model"

	"github.com/shopspring/decimal"
)

type dish struct {
	name     string
	category string
	price    decimal.Decimal
}

var menu = []dish{
	{"Truffle Pasta", model.CategoryMain, decimal.RequireFromString("24.99")},
	{"Classic Burger", model.CategoryMain, decimal.RequireFromString("16.50")},
	{"Margherita Pizza", model.CategoryMain, decimal.RequireFromString("14.00")},
	{"Grilled Salmon", model.CategoryMain, decimal.RequireFromString("28.00")},
	{"Caesar Salad", model.CategoryAppetizer, decimal.RequireFromString("12.50")},
	{"Steak Frites", model.CategoryMain, decimal.RequireFromString("32.00")},
	{"Mushroom Risotto", model.CategoryMain, decimal.RequireFromString("22.00")},
	{"Chicken Wings", model.CategoryAppetizer, decimal.RequireFromString("10.00")},
	{"Tacos al Pastor", model.CategoryMain, decimal.RequireFromString("15.00")},
	{"Sushi Platter", model.CategoryMain, decimal.RequireFromString("35.00")},
	{"Chocolate Lava Cake", model.CategoryDessert, decimal.RequireFromString("9.00")},
	{"Tiramisu", model.CategoryDessert, decimal.RequireFromString("8.50")},
}

var expenseCategories = []string{"Ingredients", "Labor", "Rent", "Utilities", "Marketing"}

// Order volume and service window of the generated sales.
const (
	minOrders = 40
	maxOrders = 100
	firstHour = 11
	lastHour  = 22
	maxQty    = 3
	rentDue   = 200
)

// main writes menu.csv, sales.csv and expenses.csv for the given number of
// days ending on end. The same seed always produces the same files.
func main() {
	dir := flag.String("dir", "data", "output directory")
	days := flag.Int("days", 30, "number of days of sales and expenses")
	seed := flag.Uint64("seed", 42, "random seed")
	endFlag := flag.String("end", "", "last day to generate (YYYY-MM-DD), default today")
	flag.Parse()

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if *endFlag != "" {
		t, err := time.Parse(model.DateLayout, *endFlag)
		if err != nil {
			log.Fatalf("Invalid -end date: %v", err)
		}
		end = t
	}
	if *days < 1 {
		log.Fatalf("-days must be at least 1")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(*dir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	dates := make([]time.Time, *days)
	for i := range dates {
		dates[i] = end.AddDate(0, 0, -i)
	}

	files := map[model.Dataset][][]string{
		model.DatasetMenu:     menuRows(),
		model.DatasetSales:    salesRows(rng, dates),
		model.DatasetExpenses: expenseRows(rng, dates),
	}

	for _, ds := range model.Datasets {
		path := filepath.Join(*dir, ds.FileName())
		if err := writeCSV(path, files[ds]); err != nil {
			log.Fatalf("Failed to create %s: %v", path, err)
		}
		fmt.Printf("Created %s with %d rows\n", path, len(files[ds])-1)
	}

	fmt.Println("\nSample restaurant data created successfully!")
}

func menuRows() [][]string {
	rows := [][]string{{"dish_id", "dish_name", "category", "price"}}
	for i, d := range menu {
		rows = append(rows, []string{strconv.Itoa(i + 1), d.name, d.category, d.price.StringFixed(2)})
	}
	return rows
}

func salesRows(rng *rand.Rand, dates []time.Time) [][]string {
	rows := [][]string{{"date", "dish_id", "quantity", "total_price", "hour"}}
	for _, date := range dates {
		orders := minOrders + rng.IntN(maxOrders-minOrders)
		for range orders {
			idx := rng.IntN(len(menu))
			qty := 1 + rng.IntN(maxQty)
			total := menu[idx].price.Mul(decimal.NewFromInt(int64(qty)))
			hour := firstHour + rng.IntN(lastHour-firstHour+1)

			rows = append(rows, []string{
				date.Format(model.DateLayout),
				strconv.Itoa(idx + 1),
				strconv.Itoa(qty),
				total.StringFixed(2),
				strconv.Itoa(hour),
			})
		}
	}
	return rows
}

func expenseRows(rng *rand.Rand, dates []time.Time) [][]string {
	rows := [][]string{{"date", "category", "amount"}}
	for _, date := range dates {
		for _, category := range expenseCategories {
			var amount decimal.Decimal
			switch category {
			case "Rent":
				// rent is only paid on the first of the month
				if date.Day() != 1 {
					continue
				}
				amount = decimal.NewFromInt(rentDue)
			case "Labor":
				amount = uniform(rng, 300, 500)
			default:
				amount = uniform(rng, 50, 150)
			}

			rows = append(rows, []string{date.Format(model.DateLayout), category, amount.StringFixed(2)})
		}
	}
	return rows
}

func uniform(rng *rand.Rand, lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + rng.Float64()*(hi-lo)).Round(2)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}
