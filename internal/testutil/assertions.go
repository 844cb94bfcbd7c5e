package testutil

import (
	"testing"

	"github.com/leengari/pivotgrid/internal/domain/data"
)

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertColumnValues checks a column's text values across rows, in order
func AssertColumnValues(t *testing.T, rows []data.Row, column string, expected []string, context string) {
	t.Helper()
	if len(rows) != len(expected) {
		t.Fatalf("%s: expected %d rows, got %d", context, len(expected), len(rows))
	}
	for i, row := range rows {
		if got := row.Get(column).Text(); got != expected[i] {
			t.Errorf("%s: row %d column %q expected %q, got %q", context, i, column, expected[i], got)
		}
	}
}

// AssertColumnExists checks if a column exists in a row
func AssertColumnExists(t *testing.T, row data.Row, column, context string) {
	t.Helper()
	if !row.Has(column) {
		t.Errorf("%s: expected column '%s' to exist", context, column)
	}
}

// AssertColumnNotExists checks if a column does not exist in a row
func AssertColumnNotExists(t *testing.T, row data.Row, column, context string) {
	t.Helper()
	if row.Has(column) {
		t.Errorf("%s: did not expect column '%s' to exist", context, column)
	}
}

// AssertEmptyValue checks that a cell is empty
func AssertEmptyValue(t *testing.T, value data.Value, context string) {
	t.Helper()
	if !value.IsEmpty() {
		t.Errorf("%s: expected empty value, got: %v", context, value)
	}
}

// AssertNumber checks that a cell is a number equal to expected
func AssertNumber(t *testing.T, value data.Value, expected float64, context string) {
	t.Helper()
	f, ok := value.Float()
	if !value.IsNumber() || !ok {
		t.Errorf("%s: expected number %v, got %s %q", context, expected, value.Kind(), value.Text())
		return
	}
	if f != expected {
		t.Errorf("%s: expected %v, got %v", context, expected, f)
	}
}
