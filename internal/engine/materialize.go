package engine

import (
	"github.com/leengari/pivotgrid/internal/domain/data"
	"github.com/leengari/pivotgrid/internal/query/filter"
	"github.com/leengari/pivotgrid/internal/query/paginate"
	"github.com/leengari/pivotgrid/internal/query/projection"
	"github.com/leengari/pivotgrid/internal/query/sorting"
)

// PageView is one materialized page. Columns are the visible columns in
// dataset order; Grid is the header row followed by the page's rows.
type PageView struct {
	Columns []string
	Rows    []data.Row
	Grid    [][]string
	Sort    sorting.State

	Page       int
	PageSize   int
	TotalPages int
	TotalRows  int
	Offset     int
}

// filteredSorted runs the filter and sort stages over the whole dataset
func (e *Engine) filteredSorted() []data.Row {
	rows := filter.Apply(e.dataset.Rows, e.filters)
	e.notify(Event{Type: EventFilter, Data: map[string]any{
		"rows_in":    e.dataset.Len(),
		"rows_out":   len(rows),
		"restricted": len(e.filters),
	}})

	if e.sort.Active() {
		rows = sorting.Apply(rows, e.sort, e.coll)
		e.notify(Event{Type: EventSort, Data: map[string]any{
			"column":    e.sort.Column,
			"direction": e.sort.Direction.String(),
		}})
	}
	return rows
}

// Materialize composes filter, sort, pagination and projection into the
// visible page. The clamped page number is kept.
func (e *Engine) Materialize() (PageView, error) {
	if err := e.requireDataset(); err != nil {
		return PageView{}, err
	}

	rows := e.filteredSorted()

	page, clamped := paginate.Slice(rows, e.page)
	e.page = clamped
	e.notify(Event{Type: EventPaginate, Data: map[string]any{
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total_pages": page.TotalPages,
	}})

	proj := projection.NewProjection(e.hidden...)
	pv := PageView{
		Columns: proj.VisibleColumns(e.dataset.Columns),
		Rows:    page.Rows,
		Grid:    projection.Grid(e.dataset.Columns, page.Rows, proj),
		Sort:    e.sort,

		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		TotalRows:  page.TotalRows,
		Offset:     page.Offset,
	}
	e.notify(Event{Type: EventMaterialize, Data: map[string]any{
		"rows":    len(pv.Rows),
		"columns": len(pv.Columns),
	}})
	return pv, nil
}

// ExportGrid returns the visible columns of the current page, or of every
// filtered and sorted row when allPages is set, header row first
func (e *Engine) ExportGrid(allPages bool) ([][]string, error) {
	if !allPages {
		pv, err := e.Materialize()
		if err != nil {
			return nil, err
		}
		return pv.Grid, nil
	}
	if err := e.requireDataset(); err != nil {
		return nil, err
	}
	return projection.Grid(e.dataset.Columns, e.filteredSorted(), projection.NewProjection(e.hidden...)), nil
}
