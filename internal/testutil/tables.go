package testutil

import (
	"testing"

	"github.com/leengari/pivotgrid/internal/domain/data"
)

// NewDataset builds a dataset from string cells; "" becomes Empty.
// Each record holds one value per column, in column order.
func NewDataset(t *testing.T, columns []string, records ...[]string) *data.Dataset {
	t.Helper()
	rows := make([]data.Row, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(columns) {
			t.Fatalf("record %d: expected %d values, got %d", i, len(columns), len(rec))
		}
		row := make(data.Row, len(columns))
		for j, col := range columns {
			row[col] = data.Str(rec[j])
		}
		rows = append(rows, row)
	}
	ds, err := data.NewDataset(columns, rows)
	if err != nil {
		t.Fatalf("failed to build dataset: %v", err)
	}
	return ds
}

// CreatePeopleDataset creates a small mixed-type dataset
func CreatePeopleDataset(t *testing.T) *data.Dataset {
	t.Helper()
	return NewDataset(t, []string{"name", "city", "age", "score"},
		[]string{"alice", "Oslo", "30", "7.5"},
		[]string{"bob", "Lima", "25", ""},
		[]string{"carol", "Oslo", "41", "9"},
		[]string{"dave", "", "19", "6"},
	)
}

// CreateSalesDataset creates n rows of region/amount data with a
// repeating region cycle, for pagination and worker tests
func CreateSalesDataset(t *testing.T, n int) *data.Dataset {
	t.Helper()
	regions := []string{"north", "south", "east", "west", "central"}
	rows := make([][]string, n)
	for i := range n {
		rows[i] = []string{regions[i%len(regions)], data.FormatNumber(float64(i + 1))}
	}
	return NewDataset(t, []string{"region", "amount"}, rows...)
}
