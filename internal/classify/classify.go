// Package classify tags dataset columns as numeric or textual from a
// bounded prefix sample of rows.
package classify

import (
	"github.com/leengari/pivotgrid/internal/domain/data"
)

// DefaultSampleSize bounds how many leading rows are inspected
const DefaultSampleSize = 1000

// Kind is the classification of one column
type Kind int

const (
	Textual Kind = iota
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "textual"
}

// Classification maps every dataset column to exactly one Kind.
// It keeps the dataset column order for its list queries.
type Classification struct {
	columns []string
	kinds   map[string]Kind
}

// Classify inspects the first sampleSize rows (all rows when sampleSize
// exceeds the row count, DefaultSampleSize when sampleSize <= 0).
// A column is numeric when at least one sampled value is non-empty and
// every non-empty sampled value is a number.
func Classify(ds *data.Dataset, sampleSize int) Classification {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	c := Classification{kinds: make(map[string]Kind)}
	if ds == nil {
		return c
	}

	n := min(sampleSize, len(ds.Rows))
	sample := ds.Rows[:n]

	c.columns = append([]string(nil), ds.Columns...)
	for _, col := range ds.Columns {
		c.kinds[col] = classifyColumn(sample, col)
	}
	return c
}

func classifyColumn(sample []data.Row, col string) Kind {
	hasNumeric := false
	for _, row := range sample {
		v := row.Get(col)
		if v.IsEmpty() {
			continue
		}
		if _, ok := v.Float(); !ok {
			return Textual
		}
		hasNumeric = true
	}
	if hasNumeric {
		return Numeric
	}
	return Textual
}

// Kind returns the classification of column. Unknown columns are textual.
func (c Classification) Kind(column string) Kind {
	return c.kinds[column]
}

// IsNumeric reports whether column was classified numeric
func (c Classification) IsNumeric(column string) bool {
	return c.kinds[column] == Numeric
}

// Columns returns the classified columns in dataset order
func (c Classification) Columns() []string {
	return append([]string(nil), c.columns...)
}

// NumericColumns returns the numeric columns in dataset order
func (c Classification) NumericColumns() []string {
	return c.filter(Numeric)
}

// TextualColumns returns the textual columns in dataset order.
// A column is never in both NumericColumns and TextualColumns.
func (c Classification) TextualColumns() []string {
	return c.filter(Textual)
}

func (c Classification) filter(kind Kind) []string {
	out := make([]string, 0, len(c.columns))
	for _, col := range c.columns {
		if c.kinds[col] == kind {
			out = append(out, col)
		}
	}
	return out
}

// CoerceNumeric converts the non-empty string values of every numeric
// column into numbers in place. Values that do not parse (possible past
// the sample prefix) are left as strings. It returns how many cells
// were converted.
func CoerceNumeric(ds *data.Dataset, c Classification) int {
	converted := 0
	numeric := c.NumericColumns()
	for _, row := range ds.Rows {
		for _, col := range numeric {
			v := row.Get(col)
			if v.Kind() != data.KindString {
				continue
			}
			if cv := v.Coerce(); cv.IsNumber() {
				row[col] = cv
				converted++
			}
		}
	}
	return converted
}
