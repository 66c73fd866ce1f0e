package model

// Dish categories produced by the fixture generator.
const (
	CategoryMain      = "Main"
	CategoryAppetizer = "Appetizer"
	CategoryDessert   = "Dessert"
)

// Dish represents a menu entry.
type Dish struct {
	ID       int     `json:"dishId"`
	Name     string  `json:"dishName"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// DishStat summarises the sales of one dish.
type DishStat struct {
	DishID   int     `json:"dishId"`
	Name     string  `json:"dishName"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// CategoryNode is one branch of the category -> dish hierarchy.
type CategoryNode struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Dishes   []Point `json:"dishes"`
}
