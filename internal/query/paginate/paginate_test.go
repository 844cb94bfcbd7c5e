package paginate

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/pivotgrid/internal/testutil"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		page      int
		pageSize  int
		wantPage  int
		wantPages int
	}{
		{"past the end", 25, 99, 10, 3, 3},
		{"below one", 25, 0, 10, 1, 3},
		{"negative", 25, -4, 10, 1, 3},
		{"in range", 25, 2, 10, 2, 3},
		{"exact multiple", 20, 3, 10, 2, 2},
		{"no rows", 0, 5, 10, 1, 1},
		{"zero size uses default", 120, 9, 0, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Page: tt.page, PageSize: tt.pageSize}.Clamp(tt.total)
			assert.Equal(t, s.Page, tt.wantPage)
			assert.Equal(t, TotalPages(tt.total, s.PageSize), tt.wantPages)
		})
	}
}

func TestSlice(t *testing.T) {
	ds := testutil.CreateSalesDataset(t, 25)

	page, state := Slice(ds.Rows, State{Page: 99, PageSize: 10})
	assert.Equal(t, state.Page, 3)
	assert.Equal(t, page.Page, 3)
	assert.Equal(t, page.TotalPages, 3)
	assert.Equal(t, page.TotalRows, 25)
	assert.Equal(t, page.Offset, 20)
	testutil.AssertColumnValues(t, page.Rows, "amount", []string{"21", "22", "23", "24", "25"}, "last page")

	page, _ = Slice(ds.Rows, State{Page: 1, PageSize: 10})
	testutil.AssertRowCount(t, len(page.Rows), 10, "first page")

	page, state = Slice(nil, State{Page: 4, PageSize: 10})
	assert.Equal(t, state.Page, 1)
	testutil.AssertRowCount(t, len(page.Rows), 0, "empty input")
}

func TestNewState(t *testing.T) {
	s, err := NewState(25)
	assert.NilError(t, err)
	assert.Equal(t, s, State{Page: 1, PageSize: 25})

	_, err = NewState(0)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
}
