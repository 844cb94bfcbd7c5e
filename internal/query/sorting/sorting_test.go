package sorting

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/pivotgrid/internal/collation"
	"github.com/leengari/pivotgrid/internal/domain/data"
	"github.com/leengari/pivotgrid/internal/testutil"
)

func column(t *testing.T, values ...string) *data.Dataset {
	t.Helper()
	records := make([][]string, len(values))
	for i, v := range values {
		records[i] = []string{v, string(rune('a' + i))}
	}
	return testutil.NewDataset(t, []string{"v", "pos"}, records...)
}

func TestSortNumericVersusText(t *testing.T) {
	coll := collation.Root()

	ds := column(t, "10", "9", "2")
	got := Apply(ds.Rows, State{Column: "v", Direction: Ascending}, coll)
	testutil.AssertColumnValues(t, got, "v", []string{"2", "9", "10"}, "numeric ascending")

	got = Apply(ds.Rows, State{Column: "v", Direction: Descending}, coll)
	testutil.AssertColumnValues(t, got, "v", []string{"10", "9", "2"}, "numeric descending")

	ds = column(t, "b", "a", "10")
	got = Apply(ds.Rows, State{Column: "v", Direction: Ascending}, coll)
	testutil.AssertColumnValues(t, got, "v", []string{"10", "a", "b"}, "mixed ascending")
}

func TestSortIsStable(t *testing.T) {
	ds := column(t, "x", "1", "x", "1", "x")
	got := Apply(ds.Rows, State{Column: "v", Direction: Ascending}, collation.Root())
	testutil.AssertColumnValues(t, got, "pos", []string{"b", "d", "a", "c", "e"}, "ascending ties")

	got = Apply(ds.Rows, State{Column: "v", Direction: Descending}, collation.Root())
	testutil.AssertColumnValues(t, got, "pos", []string{"a", "c", "e", "b", "d"}, "descending ties")
}

func TestSortNoneKeepsOrder(t *testing.T) {
	ds := column(t, "3", "1", "2")
	got := Apply(ds.Rows, State{Column: "v"}, nil)
	testutil.AssertColumnValues(t, got, "v", []string{"3", "1", "2"}, "none")

	got[0] = nil
	assert.Assert(t, ds.Rows[0] != nil)
}

func TestSortEmptyValuesFirst(t *testing.T) {
	ds := column(t, "5", "", "1")
	got := Apply(ds.Rows, State{Column: "v", Direction: Ascending}, nil)
	testutil.AssertColumnValues(t, got, "v", []string{"", "1", "5"}, "empty first")
}

func TestNumericKeys(t *testing.T) {
	ds := testutil.NewDataset(t, []string{"v"}, []string{"2"}, []string{""}, []string{"1.0"})
	ds.Rows[0]["v"] = data.Num(2)
	assert.Assert(t, NumericKeys(ds.Rows, "v"))

	ds = column(t, "2", "x")
	assert.Assert(t, !NumericKeys(ds.Rows, "v"))

	ds = column(t, "", "")
	assert.Assert(t, !NumericKeys(ds.Rows, "v"))
}

func TestSortMixedColumnIgnoresInputOrder(t *testing.T) {
	permutations := [][]string{
		{"10", "9", "1a"},
		{"9", "1a", "10"},
		{"1a", "10", "9"},
		{"9", "10", "1a"},
	}
	for _, values := range permutations {
		ds := column(t, values...)
		got := Apply(ds.Rows, State{Column: "v", Direction: Ascending}, collation.Root())
		testutil.AssertColumnValues(t, got, "v", []string{"10", "1a", "9"}, "mixed ascending")

		got = Apply(ds.Rows, State{Column: "v", Direction: Descending}, collation.Root())
		testutil.AssertColumnValues(t, got, "v", []string{"9", "1a", "10"}, "mixed descending")
	}
}

func TestToggle(t *testing.T) {
	var s State
	s = s.Toggle("v", Ascending)
	assert.Equal(t, s, State{Column: "v", Direction: Ascending})

	s = s.Toggle("v", Descending)
	assert.Equal(t, s, State{Column: "v", Direction: Descending})

	s = s.Toggle("v", Descending)
	assert.Assert(t, !s.Active())
}

func TestParseDirection(t *testing.T) {
	for input, want := range map[string]Direction{"asc": Ascending, "DESC": Descending, "": None, "descending": Descending} {
		got, err := ParseDirection(input)
		assert.NilError(t, err)
		assert.Equal(t, got, want, input)
	}
	_, err := ParseDirection("up")
	assert.ErrorContains(t, err, "unknown sort direction")
}
