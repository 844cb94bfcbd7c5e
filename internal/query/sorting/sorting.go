// Package sorting orders rows by a single column.
package sorting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leengari/pivotgrid/internal/collation"
	"github.com/leengari/pivotgrid/internal/domain/data"
)

type Direction int

const (
	None Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// ParseDirection accepts asc/ascending, desc/descending and none/""
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	case "", "none":
		return None, nil
	default:
		return None, fmt.Errorf("unknown sort direction %q", s)
	}
}

// State is the single active sort key
type State struct {
	Column    string
	Direction Direction
}

// Active reports whether the state sorts at all
func (s State) Active() bool {
	return s.Column != "" && s.Direction != None
}

// Toggle selects column/dir, or clears sorting when that exact key is
// already active
func (s State) Toggle(column string, dir Direction) State {
	if s.Column == column && s.Direction == dir {
		return State{}
	}
	if dir == None {
		return State{}
	}
	return State{Column: column, Direction: dir}
}

// NumericKeys reports whether every non-empty value of column in rows is
// a number or a numeric string. A column with no non-empty values is
// not numeric.
func NumericKeys(rows []data.Row, column string) bool {
	seen := false
	for _, row := range rows {
		v := row.Get(column)
		if v.IsEmpty() {
			continue
		}
		if _, ok := v.Float(); !ok {
			return false
		}
		seen = true
	}
	return seen
}

type key struct {
	empty bool
	num   float64
	text  string
}

// compareKeys orders empty keys first, then numbers when numeric is set,
// otherwise locale-aware text
func compareKeys(a, b key, numeric bool, coll *collation.Collator) int {
	switch {
	case a.empty && b.empty:
		return 0
	case a.empty:
		return -1
	case b.empty:
		return 1
	}
	if numeric {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	}
	return coll.Compare(a.text, b.text)
}

// Apply returns a sorted copy of rows. Equal keys keep their input order.
// The column is compared numerically only when all of its non-empty keys
// are numeric, otherwise every key compares as text. An inactive state
// returns the rows in input order.
func Apply(rows []data.Row, state State, coll *collation.Collator) []data.Row {
	out := append([]data.Row(nil), rows...)
	if !state.Active() {
		return out
	}
	if coll == nil {
		coll = collation.Root()
	}

	numeric := NumericKeys(out, state.Column)
	keys := make([]key, len(out))
	idx := make([]int, len(out))
	for i, row := range out {
		v := row.Get(state.Column)
		f, _ := v.Float()
		keys[i] = key{empty: v.IsEmpty(), num: f, text: v.Text()}
		idx[i] = i
	}

	sign := 1
	if state.Direction == Descending {
		sign = -1
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return sign*compareKeys(keys[idx[i]], keys[idx[j]], numeric, coll) < 0
	})

	sorted := make([]data.Row, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}
