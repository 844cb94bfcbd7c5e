package data

// Row represents a single dataset row
// Key = column name, Value = cell value
type Row map[string]Value

// Get returns the value for column, or Empty when the row has no such key
func (r Row) Get(column string) Value {
	return r[column]
}

// Has reports whether the row declares column
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Copy creates a copy of the row so derivations never mutate shared rows
func (r Row) Copy() Row {
	cp := make(Row, len(r)+1)
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// NewRowFromStrings builds a row from parser output: one string per
// column, "" meaning missing.
func NewRowFromStrings(columns []string, values map[string]string) Row {
	row := make(Row, len(columns))
	for _, col := range columns {
		row[col] = Str(values[col])
	}
	return row
}
