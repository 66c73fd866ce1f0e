package model

import "fmt"

// Dataset identifies one of the three source tables.
type Dataset string

const (
	DatasetSales    Dataset = "sales"
	DatasetMenu     Dataset = "menu"
	DatasetExpenses Dataset = "expenses"
)

// Datasets lists every source table in load order.
var Datasets = []Dataset{DatasetMenu, DatasetSales, DatasetExpenses}

// ParseDataset converts a raw identifier into a Dataset.
func ParseDataset(s string) (Dataset, error) {
	switch Dataset(s) {
	case DatasetSales, DatasetMenu, DatasetExpenses:
		return Dataset(s), nil
	}
	return "", fmt.Errorf("unknown dataset %q (must be sales, menu, or expenses)", s)
}

// FileName returns the conventional CSV file name of the dataset.
func (d Dataset) FileName() string {
	return string(d) + ".csv"
}
