package repl

import (
	"bytes"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/leengari/pivotgrid/internal/config"
	"github.com/leengari/pivotgrid/internal/engine"
	"github.com/leengari/pivotgrid/internal/storage"
	"github.com/leengari/pivotgrid/internal/testutil"
)

type memClipboard struct{ text string }

func (m *memClipboard) WriteText(text string) error {
	m.text = text
	return nil
}

func newSession(t *testing.T) (*Session, *engine.Engine, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Store = config.StoreConfig{Driver: "memory"}
	eng, err := engine.New(cfg, storage.NewAdapter(storage.NewMemoryStore(), cfg.Namespace))
	assert.NilError(t, err)
	t.Cleanup(eng.Close)
	eng.LoadDataset(testutil.CreatePeopleDataset(t), "people")

	var out bytes.Buffer
	return New(eng, &out), eng, &out
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"show", []string{"show"}},
		{"filter  city Oslo,Lima", []string{"filter", "city", "Oslo,Lima"}},
		{`hide "unit price"`, []string{"hide", "unit price"}},
		{`filter city ""`, []string{"filter", "city", ""}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.DeepEqual(t, splitArgs(tt.line), tt.want)
	}
}

func TestRunScript(t *testing.T) {
	s, eng, out := newSession(t)

	s.Run(strings.NewReader("filter city Oslo\nsort age desc\nexit\nshow\n"))

	pv, err := eng.Materialize()
	assert.NilError(t, err)
	testutil.AssertColumnValues(t, pv.Rows, "name", []string{"carol", "alice"}, "after script")
	assert.Assert(t, is.Contains(out.String(), "sorted by age desc"))
	assert.Assert(t, is.Contains(out.String(), "page 1 of 1, 2 rows"))
}

func TestAddCommand(t *testing.T) {
	s, eng, out := newSession(t)

	assert.NilError(t, s.Execute(`add "age next" after age = [age] + 1`))
	assert.DeepEqual(t, eng.Columns(), []string{"name", "city", "age", "age next", "score"})
	assert.Assert(t, is.Contains(out.String(), `Added column "age next" (4 rows, 0 failed)`))

	assert.ErrorContains(t, s.Execute("add broken"), "usage")
	assert.ErrorContains(t, s.Execute("add x = "), "formula")
}

func TestUniqueAndColumns(t *testing.T) {
	s, _, out := newSession(t)

	assert.NilError(t, s.Execute("unique city"))
	assert.Assert(t, is.Contains(out.String(), "(empty)\nLima\nOslo\n"))

	out.Reset()
	assert.NilError(t, s.Execute("hide score"))
	out.Reset()
	assert.NilError(t, s.Execute("columns"))
	assert.Assert(t, is.Contains(out.String(), "numeric (hidden)"))
}

func TestCopyAndErrors(t *testing.T) {
	s, _, out := newSession(t)
	cb := &memClipboard{}
	s.SetClipboard(cb)

	assert.NilError(t, s.Execute("size 2"))
	assert.NilError(t, s.Execute("copy"))
	assert.Equal(t, cb.text, "name\tcity\tage\tscore\nalice\tOslo\t30\t7.5\nbob\tLima\t25\t\n")
	assert.Assert(t, is.Contains(out.String(), "Copied 2 rows"))

	assert.ErrorContains(t, s.Execute("bogus"), "unknown command")
	assert.ErrorContains(t, s.Execute("page x"), "usage: page")
	assert.ErrorContains(t, s.Execute("filter nope a"), "column not found")
	assert.ErrorContains(t, s.Execute("sort age sideways"), "unknown sort direction")
}
