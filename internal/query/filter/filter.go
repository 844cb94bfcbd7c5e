// Package filter restricts rows by per-column allow-sets.
package filter

import (
	"sort"

	"github.com/leengari/pivotgrid/internal/domain/data"
)

// AllowSet is the set of canonical cell texts a column permits.
// The empty cell is the empty string.
type AllowSet map[string]struct{}

// NewAllowSet builds an allow-set from values
func NewAllowSet(values ...string) AllowSet {
	s := make(AllowSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s AllowSet) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// Values returns the members in byte order
func (s AllowSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s AllowSet) Clone() AllowSet {
	cp := make(AllowSet, len(s))
	for v := range s {
		cp[v] = struct{}{}
	}
	return cp
}

// State maps column name to its allow-set.
// A column with no entry is unrestricted. A column whose entry is an
// empty (or nil) set excludes every row.
type State map[string]AllowSet

// IsRestricted reports whether column has an entry
func (s State) IsRestricted(column string) bool {
	_, ok := s[column]
	return ok
}

func (s State) Clone() State {
	cp := make(State, len(s))
	for col, set := range s {
		cp[col] = set.Clone()
	}
	return cp
}

// Matches reports whether row passes every column restriction
func (s State) Matches(row data.Row) bool {
	for col, allowed := range s {
		if !allowed.Contains(row.Get(col).Text()) {
			return false
		}
	}
	return true
}

// Apply returns the rows that pass every restriction, in input order.
// The returned slice never aliases rows.
func Apply(rows []data.Row, state State) []data.Row {
	out := make([]data.Row, 0, len(rows))
	if len(state) == 0 {
		return append(out, rows...)
	}
	for _, row := range rows {
		if state.Matches(row) {
			out = append(out, row)
		}
	}
	return out
}
