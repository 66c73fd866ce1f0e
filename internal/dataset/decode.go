package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"restaurant-dashboard/internal/model"
	"restaurant-dashboard/internal/source"
)

// Required columns per dataset, in the order they are documented.
var (
	menuColumns     = []string{"dish_id", "dish_name", "category", "price"}
	salesColumns    = []string{"date", "dish_id", "quantity", "total_price", "hour"}
	expensesColumns = []string{"date", "category", "amount"}
)

// columnIndex maps required column names to their position in the header.
// Matching ignores case and surrounding whitespace; extra columns are ignored.
func columnIndex(dataset model.Dataset, header, required []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	index := make(map[string]int, len(required))
	for _, col := range required {
		pos, ok := positions[col]
		if !ok {
			return nil, &model.SchemaError{Dataset: dataset, Column: col, Reason: "required column is missing"}
		}
		index[col] = pos
	}
	return index, nil
}

// row reads typed cells from one data row. The first failure is kept in err
// and later reads are no-ops.
type row struct {
	dataset model.Dataset
	rowNum  int
	cells   []string
	index   map[string]int
	err     error
}

func (r *row) fail(col, reason string) {
	if r.err == nil {
		r.err = &model.SchemaError{Dataset: r.dataset, Column: col, Row: r.rowNum, Reason: reason}
	}
}

func (r *row) raw(col string) string {
	pos := r.index[col]
	if pos >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[pos])
}

func (r *row) text(col string) string {
	if r.err != nil {
		return ""
	}
	v := r.raw(col)
	if v == "" {
		r.fail(col, "value is empty")
	}
	return v
}

func (r *row) integer(col string) int {
	if r.err != nil {
		return 0
	}
	v := r.raw(col)
	n, err := strconv.Atoi(v)
	if err != nil {
		// accept integral floats such as "3.0" written by spreadsheet exports
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			r.fail(col, "not an integer: "+strconv.Quote(v))
			return 0
		}
		n = int(f)
	}
	return n
}

func (r *row) number(col string) float64 {
	if r.err != nil {
		return 0
	}
	v := r.raw(col)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.fail(col, "not a number: "+strconv.Quote(v))
		return 0
	}
	return f
}

func (r *row) date(col string) time.Time {
	if r.err != nil {
		return time.Time{}
	}
	v := r.raw(col)
	t, err := time.Parse(model.DateLayout, v)
	if err != nil {
		r.fail(col, "not a YYYY-MM-DD date: "+strconv.Quote(v))
	}
	return t
}

func (r *row) check(ok bool, col, reason string) {
	if r.err == nil && !ok {
		r.fail(col, reason)
	}
}

// decodeRows walks every data row of a table with a row reader.
func decodeRows(dataset model.Dataset, table *source.RawTable, required []string, fn func(r *row)) error {
	index, err := columnIndex(dataset, table.Header, required)
	if err != nil {
		return err
	}
	for i, cells := range table.Rows {
		r := &row{dataset: dataset, rowNum: i + 1, cells: cells, index: index}
		fn(r)
		if r.err != nil {
			return r.err
		}
	}
	return nil
}

// DecodeMenu validates a raw menu table.
func DecodeMenu(table *source.RawTable) ([]model.Dish, error) {
	menu := make([]model.Dish, 0, table.Len())
	seen := make(map[int]int, table.Len())

	err := decodeRows(model.DatasetMenu, table, menuColumns, func(r *row) {
		d := model.Dish{
			ID:       r.integer("dish_id"),
			Name:     r.text("dish_name"),
			Category: r.text("category"),
			Price:    r.number("price"),
		}
		r.check(d.Price > 0, "price", "must be positive")
		if first, dup := seen[d.ID]; dup && r.err == nil {
			r.fail("dish_id", "duplicate dish id "+strconv.Itoa(d.ID)+" (first seen on row "+strconv.Itoa(first)+")")
		}
		if r.err == nil {
			seen[d.ID] = r.rowNum
			menu = append(menu, d)
		}
	})
	if err != nil {
		return nil, err
	}
	return menu, nil
}

// DecodeSales validates a raw sales table.
func DecodeSales(table *source.RawTable) ([]model.SaleRecord, error) {
	sales := make([]model.SaleRecord, 0, table.Len())

	err := decodeRows(model.DatasetSales, table, salesColumns, func(r *row) {
		s := model.SaleRecord{
			Date:       r.date("date"),
			DishID:     r.integer("dish_id"),
			Quantity:   r.integer("quantity"),
			TotalPrice: r.number("total_price"),
			Hour:       r.integer("hour"),
		}
		r.check(s.Quantity > 0, "quantity", "must be positive")
		r.check(s.TotalPrice >= 0, "total_price", "must not be negative")
		r.check(s.Hour >= 0 && s.Hour <= 23, "hour", "must be between 0 and 23")
		if r.err == nil {
			sales = append(sales, s)
		}
	})
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// DecodeExpenses validates a raw expense ledger.
func DecodeExpenses(table *source.RawTable) ([]model.ExpenseRecord, error) {
	expenses := make([]model.ExpenseRecord, 0, table.Len())

	err := decodeRows(model.DatasetExpenses, table, expensesColumns, func(r *row) {
		e := model.ExpenseRecord{
			Date:     r.date("date"),
			Category: r.text("category"),
			Amount:   r.number("amount"),
		}
		r.check(e.Amount >= 0, "amount", "must not be negative")
		if r.err == nil {
			expenses = append(expenses, e)
		}
	})
	if err != nil {
		return nil, err
	}
	return expenses, nil
}
