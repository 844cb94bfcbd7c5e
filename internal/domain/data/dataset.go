package data

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateColumn is returned when a column name appears twice
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrColumnNotFound is returned when a column name is not declared
	ErrColumnNotFound = errors.New("column not found")
)

// Dataset is the full in-memory table: ordered, unique column names and
// rows in parser order. Every row carries a value for every column.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// NewDataset validates column uniqueness and fills any column a row is
// missing with Empty.
func NewDataset(columns []string, rows []Row) (*Dataset, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if _, dup := seen[col]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col)
		}
		seen[col] = struct{}{}
	}

	for _, row := range rows {
		for _, col := range columns {
			if _, ok := row[col]; !ok {
				row[col] = Empty()
			}
		}
	}

	return &Dataset{
		Columns: append([]string(nil), columns...),
		Rows:    rows,
	}, nil
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// HasColumn reports whether name is a declared column
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// ColumnIndex returns the display position of name, or -1
func (d *Dataset) ColumnIndex(name string) int {
	if d == nil {
		return -1
	}
	for i, col := range d.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// ColumnValues returns every row's value for column, in row order
func (d *Dataset) ColumnValues(column string) []Value {
	values := make([]Value, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row.Get(column)
	}
	return values
}

// InsertColumn splices name into the column order right after anchor when
// anchor is declared, otherwise at the end. It returns the new position.
// Rows are not touched.
func (d *Dataset) InsertColumn(name, anchor string) (int, error) {
	if d.HasColumn(name) {
		return -1, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	idx := len(d.Columns)
	if anchor != "" {
		if pos := d.ColumnIndex(anchor); pos >= 0 {
			idx = pos + 1
		}
	}
	d.Columns = append(d.Columns, "")
	copy(d.Columns[idx+1:], d.Columns[idx:])
	d.Columns[idx] = name
	return idx, nil
}

// Clone returns a dataset that shares no rows or column slices with d
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	rows := make([]Row, len(d.Rows))
	for i, row := range d.Rows {
		rows[i] = row.Copy()
	}
	return &Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    rows,
	}
}
