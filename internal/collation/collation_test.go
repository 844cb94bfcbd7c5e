package collation

import (
	"sort"
	"testing"

	"gotest.tools/v3/assert"
)

func TestCompareRootOrder(t *testing.T) {
	c := Root()

	words := []string{"b", "B", "a", "10", "é", "e"}
	sort.SliceStable(words, func(i, j int) bool { return c.Compare(words[i], words[j]) < 0 })

	assert.DeepEqual(t, words, []string{"10", "a", "b", "B", "e", "é"})
}

func TestCompareIsTotal(t *testing.T) {
	c := Root()
	assert.Equal(t, c.Compare("x", "x"), 0)
	assert.Assert(t, c.Compare("a", "b") < 0)
	assert.Assert(t, c.Compare("b", "a") > 0)
}

func TestNewLocale(t *testing.T) {
	c, err := New("sv")
	assert.NilError(t, err)
	assert.Equal(t, c.Locale(), "sv")
	assert.Equal(t, c.Clone().Locale(), "sv")

	// Swedish sorts ö after z
	assert.Assert(t, c.Compare("ö", "z") > 0)

	_, err = New("not a locale!")
	assert.ErrorContains(t, err, "invalid locale")

	def, err := New("")
	assert.NilError(t, err)
	assert.Equal(t, def.Locale(), "und")
}
