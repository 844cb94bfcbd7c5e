package filter

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/pivotgrid/internal/testutil"
)

func TestApplyComposesWithAnd(t *testing.T) {
	ds := testutil.NewDataset(t, []string{"A", "B"},
		[]string{"x", "1"},
		[]string{"x", "2"},
		[]string{"y", "1"},
	)

	state := State{
		"A": NewAllowSet("x"),
		"B": NewAllowSet("1"),
	}
	got := Apply(ds.Rows, state)

	testutil.AssertRowCount(t, len(got), 1, "A=x AND B=1")
	testutil.AssertColumnValues(t, got, "A", []string{"x"}, "A")
	testutil.AssertColumnValues(t, got, "B", []string{"1"}, "B")
}

func TestEmptySetSemantics(t *testing.T) {
	ds := testutil.CreatePeopleDataset(t)

	testutil.AssertRowCount(t, len(Apply(ds.Rows, nil)), 4, "no state")
	testutil.AssertRowCount(t, len(Apply(ds.Rows, State{})), 4, "no entries")
	testutil.AssertRowCount(t, len(Apply(ds.Rows, State{"city": NewAllowSet()})), 0, "explicitly empty set")
	testutil.AssertRowCount(t, len(Apply(ds.Rows, State{"city": nil})), 0, "nil set")
}

func TestEmptyCellsMatchEmptyString(t *testing.T) {
	ds := testutil.CreatePeopleDataset(t)

	got := Apply(ds.Rows, State{"city": NewAllowSet("")})
	testutil.AssertColumnValues(t, got, "name", []string{"dave"}, "empty city")

	got = Apply(ds.Rows, State{"score": NewAllowSet("", "9")})
	testutil.AssertColumnValues(t, got, "name", []string{"bob", "carol"}, "empty or 9")
}

func TestApplyDoesNotAlias(t *testing.T) {
	ds := testutil.CreatePeopleDataset(t)

	got := Apply(ds.Rows, nil)
	got[0] = nil
	assert.Assert(t, ds.Rows[0] != nil)
}

func TestStateHelpers(t *testing.T) {
	s := State{"a": NewAllowSet("2", "1")}
	assert.Assert(t, s.IsRestricted("a"))
	assert.Assert(t, !s.IsRestricted("b"))
	assert.DeepEqual(t, s["a"].Values(), []string{"1", "2"})

	cp := s.Clone()
	cp["a"]["3"] = struct{}{}
	assert.Assert(t, !s["a"].Contains("3"))
}
