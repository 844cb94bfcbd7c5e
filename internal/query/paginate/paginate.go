// Package paginate slices a row sequence into 1-based pages.
package paginate

import (
	"errors"

	"github.com/leengari/pivotgrid/internal/domain/data"
)

// DefaultPageSize is used when a state carries no usable size
const DefaultPageSize = 50

var ErrInvalidPageSize = errors.New("page size must be positive")

type State struct {
	Page     int
	PageSize int
}

// NewState returns page 1 with the given size
func NewState(pageSize int) (State, error) {
	if pageSize <= 0 {
		return State{}, ErrInvalidPageSize
	}
	return State{Page: 1, PageSize: pageSize}, nil
}

// TotalPages is ceil(total/pageSize), never less than 1
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Clamp moves Page into [1, TotalPages(total)]
func (s State) Clamp(total int) State {
	if s.PageSize <= 0 {
		s.PageSize = DefaultPageSize
	}
	pages := TotalPages(total, s.PageSize)
	switch {
	case s.Page < 1:
		s.Page = 1
	case s.Page > pages:
		s.Page = pages
	}
	return s
}

// Page is one materialized slice
type Page struct {
	Rows       []data.Row
	Page       int
	PageSize   int
	TotalPages int
	TotalRows  int
	// Offset is the 0-based index of Rows[0] within the full sequence
	Offset int
}

// Slice clamps the state against rows and returns the page. The
// clamped state is returned so callers can store it.
func Slice(rows []data.Row, s State) (Page, State) {
	s = s.Clamp(len(rows))
	start := (s.Page - 1) * s.PageSize
	end := min(start+s.PageSize, len(rows))
	if start > end {
		start = end
	}
	return Page{
		Rows:       rows[start:end:end],
		Page:       s.Page,
		PageSize:   s.PageSize,
		TotalPages: TotalPages(len(rows), s.PageSize),
		TotalRows:  len(rows),
		Offset:     start,
	}, s
}
