package projection

import (
	"github.com/leengari/pivotgrid/internal/domain/data"
)

// Projection hides a set of columns from every table surface.
// A nil Projection shows all columns.
type Projection struct {
	Hidden map[string]struct{}
}

// NewProjection creates a projection hiding the given columns
func NewProjection(hidden ...string) *Projection {
	p := &Projection{Hidden: make(map[string]struct{}, len(hidden))}
	for _, col := range hidden {
		p.Hidden[col] = struct{}{}
	}
	return p
}

// IsHidden reports whether column is hidden
func (p *Projection) IsHidden(column string) bool {
	if p == nil {
		return false
	}
	_, ok := p.Hidden[column]
	return ok
}

// HiddenColumns returns the hidden names that are declared in columns,
// in column order
func (p *Projection) HiddenColumns(columns []string) []string {
	out := make([]string, 0)
	for _, col := range columns {
		if p.IsHidden(col) {
			out = append(out, col)
		}
	}
	return out
}

// VisibleColumns returns columns minus the hidden set, order preserved
func (p *Projection) VisibleColumns(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if !p.IsHidden(col) {
			out = append(out, col)
		}
	}
	return out
}

// ProjectRow returns the row's canonical text for each of columns
func ProjectRow(row data.Row, columns []string) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = row.Get(col).Text()
	}
	return cells
}

// Grid renders rows as a header line followed by one line per row,
// limited to the visible columns
func Grid(columns []string, rows []data.Row, proj *Projection) [][]string {
	visible := proj.VisibleColumns(columns)
	grid := make([][]string, 0, len(rows)+1)
	grid = append(grid, append([]string(nil), visible...))
	for _, row := range rows {
		grid = append(grid, ProjectRow(row, visible))
	}
	return grid
}
