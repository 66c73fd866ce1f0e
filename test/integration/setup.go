package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"restaurant-dashboard/internal/database"
	"restaurant-dashboard/internal/model"
	"restaurant-dashboard/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	Repo      repository.TableRepository
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the dataset schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	repo := repository.NewTableRepository(pool, logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		Repo:      repo,
		ConnStr:   connStr,
	}
}

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Fixture data shared by every integration test. 2024-01-01 is a Monday.
// The last sale references dish 9, which is not on the menu.
var (
	fixtureMenu = []model.Dish{
		{ID: 1, Name: "Burger", Category: "Main", Price: 10},
		{ID: 2, Name: "Soup", Category: "Appetizer", Price: 6.5},
		{ID: 3, Name: "Cake", Category: "Dessert", Price: 4.25},
	}
	fixtureSales = []model.SaleRecord{
		{Date: day("2024-01-01"), Hour: 12, DishID: 1, Quantity: 2, TotalPrice: 20},
		{Date: day("2024-01-01"), Hour: 13, DishID: 2, Quantity: 1, TotalPrice: 6.5},
		{Date: day("2024-01-02"), Hour: 12, DishID: 3, Quantity: 4, TotalPrice: 17},
		{Date: day("2024-01-02"), Hour: 19, DishID: 1, Quantity: 1, TotalPrice: 10},
		{Date: day("2024-01-03"), Hour: 20, DishID: 9, Quantity: 1, TotalPrice: 5},
	}
	fixtureExpenses = []model.ExpenseRecord{
		{Date: day("2024-01-01"), Category: "Rent", Amount: 100},
		{Date: day("2024-01-02"), Category: "Labor", Amount: 20},
		{Date: day("2024-01-04"), Category: "Utilities", Amount: 15.5},
	}
)

// The same fixtures as CSV files.
var fixtureFiles = map[model.Dataset]string{
	model.DatasetMenu: "dish_id,dish_name,category,price\n" +
		"1,Burger,Main,10.00\n" +
		"2,Soup,Appetizer,6.50\n" +
		"3,Cake,Dessert,4.25\n",
	model.DatasetSales: "date,dish_id,quantity,total_price,hour\n" +
		"2024-01-01,1,2,20.00,12\n" +
		"2024-01-01,2,1,6.50,13\n" +
		"2024-01-02,3,4,17.00,12\n" +
		"2024-01-02,1,1,10.00,19\n" +
		"2024-01-03,9,1,5.00,20\n",
	model.DatasetExpenses: "date,category,amount\n" +
		"2024-01-01,Rent,100.00\n" +
		"2024-01-02,Labor,20.00\n" +
		"2024-01-04,Utilities,15.50\n",
}

// SeedFixtures replaces the dataset tables with the fixture data.
func SeedFixtures(t *testing.T, db *TestDB) {
	t.Helper()

	if err := db.Repo.Seed(context.Background(), fixtureMenu, fixtureSales, fixtureExpenses); err != nil {
		t.Fatalf("failed to seed fixtures: %v", err)
	}
}

// WriteFixtureFiles writes the fixture CSVs into a temporary directory.
func WriteFixtureFiles(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for ds, content := range fixtureFiles {
		if err := os.WriteFile(filepath.Join(dir, ds.FileName()), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", ds, err)
		}
	}
	return dir
}

// DropTable removes one dataset table to simulate a missing source.
func DropTable(t *testing.T, pool *pgxpool.Pool, ds model.Dataset) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+string(ds)); err != nil {
		t.Fatalf("failed to drop table %s: %v", ds, err)
	}
}
