package engine

import (
	"context"
	"fmt"

	"github.com/leengari/pivotgrid/internal/query/filter"
	"github.com/leengari/pivotgrid/internal/query/paginate"
	"github.com/leengari/pivotgrid/internal/query/sorting"
	"github.com/leengari/pivotgrid/internal/worker"
)

// SetFilter restricts column to values. An empty values list excludes
// every row.
func (e *Engine) SetFilter(column string, values []string) error {
	if err := e.requireColumn(column); err != nil {
		return err
	}
	e.filters[column] = filter.NewAllowSet(values...)
	e.clampPage()
	return nil
}

// Filters returns a copy of the filter state
func (e *Engine) Filters() filter.State { return e.filters.Clone() }

// FilterCandidates returns the sorted distinct values of the full column
// that contain search. Columns longer than the worker threshold are
// handed to the worker pool.
func (e *Engine) FilterCandidates(ctx context.Context, column, search string) ([]string, error) {
	if err := e.requireColumn(column); err != nil {
		return nil, err
	}
	values := e.dataset.ColumnValues(column)

	if len(values) <= e.cfg.WorkerThreshold {
		return worker.Compute(values, search, e.coll), nil
	}

	unique, err := e.pool.Unique(ctx, values, search)
	e.notify(Event{Type: EventWorker, Data: map[string]any{
		"column":  column,
		"values":  len(values),
		"unique":  len(unique),
		"token":   e.pool.Latest(),
		"success": err == nil,
	}})
	if err != nil {
		return nil, fmt.Errorf("filter candidates for %q: %w", column, err)
	}
	return unique, nil
}

// current returns the allow-set being edited for column. An untouched
// column starts from every value checked.
func (e *Engine) current(column string) filter.AllowSet {
	if set, ok := e.filters[column]; ok {
		return set.Clone()
	}
	all := filter.AllowSet{}
	for _, v := range e.dataset.ColumnValues(column) {
		all[v.Text()] = struct{}{}
	}
	return all
}

// SelectAll checks every value in visible, the candidates currently
// shown for column
func (e *Engine) SelectAll(column string, visible []string) error {
	if err := e.requireColumn(column); err != nil {
		return err
	}
	set := e.current(column)
	for _, v := range visible {
		set[v] = struct{}{}
	}
	e.filters[column] = set
	e.clampPage()
	return nil
}

// DeselectAll unchecks every value in visible
func (e *Engine) DeselectAll(column string, visible []string) error {
	if err := e.requireColumn(column); err != nil {
		return err
	}
	set := e.current(column)
	for _, v := range visible {
		delete(set, v)
	}
	e.filters[column] = set
	e.clampPage()
	return nil
}

// ToggleValue flips one value of column's allow-set
func (e *Engine) ToggleValue(column, value string) error {
	if err := e.requireColumn(column); err != nil {
		return err
	}
	set := e.current(column)
	if set.Contains(value) {
		delete(set, value)
	} else {
		set[value] = struct{}{}
	}
	e.filters[column] = set
	e.clampPage()
	return nil
}

// ClearFilter sets an explicitly empty allow-set, which excludes every row
func (e *Engine) ClearFilter(column string) error {
	return e.SetFilter(column, nil)
}

// ResetFilter removes column's restriction
func (e *Engine) ResetFilter(column string) error {
	if err := e.requireColumn(column); err != nil {
		return err
	}
	delete(e.filters, column)
	e.clampPage()
	return nil
}

// ClearAllFilters removes every restriction
func (e *Engine) ClearAllFilters() {
	e.filters = filter.State{}
	e.clampPage()
}

// SetSort makes column the single sort key. Direction None clears it.
func (e *Engine) SetSort(column string, dir sorting.Direction) error {
	if dir == sorting.None {
		e.sort = sorting.State{}
		return nil
	}
	if err := e.requireColumn(column); err != nil {
		return err
	}
	e.sort = sorting.State{Column: column, Direction: dir}
	return nil
}

// ToggleSort sets column/dir, or clears sorting when it is already active
func (e *Engine) ToggleSort(column string, dir sorting.Direction) error {
	if err := e.requireColumn(column); err != nil {
		return err
	}
	e.sort = e.sort.Toggle(column, dir)
	return nil
}

// Sort returns the sort state
func (e *Engine) Sort() sorting.State { return e.sort }

// SetPage requests a page. It is clamped into the pages of the
// filtered rows.
func (e *Engine) SetPage(page int) {
	e.page.Page = page
	e.clampPage()
}

// NextPage and PrevPage move by one page and stay within range
func (e *Engine) NextPage() { e.SetPage(e.page.Page + 1) }
func (e *Engine) PrevPage() { e.SetPage(e.page.Page - 1) }

// SetPageSize changes the page size and clamps the page
func (e *Engine) SetPageSize(size int) error {
	if size <= 0 {
		return paginate.ErrInvalidPageSize
	}
	e.page.PageSize = size
	e.clampPage()
	return nil
}

// clampPage keeps the page valid for the current filtered row count.
// Every method that changes the filters or the page calls it.
func (e *Engine) clampPage() {
	e.page = e.page.Clamp(e.filteredCount())
}

func (e *Engine) filteredCount() int {
	if e.dataset == nil {
		return 0
	}
	n := 0
	for _, row := range e.dataset.Rows {
		if e.filters.Matches(row) {
			n++
		}
	}
	return n
}
