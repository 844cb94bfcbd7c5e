package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func lineWith(t *testing.T, out, s string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, s) {
			return line
		}
	}
	t.Fatalf("no line contains %q in:\n%s", s, out)
	return ""
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Table{
		Grid:    [][]string{{"name", "age"}, {"alice", "30"}, {"bob", "7"}},
		Numeric: map[string]bool{"age": true},
		Footer:  "page 1 of 1",
	})
	assert.NilError(t, err)

	out := buf.String()
	for _, want := range []string{"name", "age", "alice", "bob", "30", "page 1 of 1"} {
		assert.Assert(t, is.Contains(out, want))
	}
	assert.Assert(t, strings.HasSuffix(out, "page 1 of 1\n"))
}

func TestRenderRightAlignsNumericColumns(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Table{
		Grid:    [][]string{{"name", "age"}, {"alice", "30"}, {"bob", "7"}},
		Numeric: map[string]bool{"age": true},
	})
	assert.NilError(t, err)

	out := buf.String()
	alice := lineWith(t, out, "alice")
	bob := lineWith(t, out, "bob")
	assert.Equal(t, strings.LastIndex(alice, "0"), strings.LastIndex(bob, "7"))
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, Render(&buf, Table{Grid: [][]string{{"a"}}}))
	assert.Assert(t, is.Contains(buf.String(), "(no rows)"))

	buf.Reset()
	assert.NilError(t, Render(&buf, Table{}))
	assert.Assert(t, is.Contains(buf.String(), "(no columns)"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, truncate("short", 10), "short")
	assert.Equal(t, truncate("abcdefgh", 5), "abcd…")

	var buf bytes.Buffer
	long := strings.Repeat("x", 100)
	assert.NilError(t, Render(&buf, Table{Grid: [][]string{{"h"}, {long}}}))
	assert.Assert(t, is.Contains(buf.String(), strings.Repeat("x", MaxCellWidth-1)+"…"))
	assert.Assert(t, !strings.Contains(buf.String(), strings.Repeat("x", MaxCellWidth)))
}

func TestError(t *testing.T) {
	assert.Assert(t, is.Contains(Error(errors.New("boom")), "Error: boom"))
}
