package repository

import (
	"context"

	"restaurant-dashboard/internal/model"
	"restaurant-dashboard/internal/source"
)

// TableRepository stores the three datasets in PostgreSQL and serves them as a table source.
type TableRepository interface {
	source.Source

	// EnsureSchema creates the menu, sales and expenses tables if they do not exist.
	EnsureSchema(ctx context.Context) error

	// Seed replaces the contents of all three tables in one transaction.
	Seed(ctx context.Context, menu []model.Dish, sales []model.SaleRecord, expenses []model.ExpenseRecord) error
}
