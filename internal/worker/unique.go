// Package worker computes distinct column values for filter dropdowns
// off the caller's goroutine.
package worker

import (
	"sort"
	"strings"

	"github.com/leengari/pivotgrid/internal/collation"
	"github.com/leengari/pivotgrid/internal/domain/data"
)

// Request asks for the distinct values of a column, optionally limited
// to those containing Filter (case-insensitive)
type Request struct {
	Token  uint64       `json:"token,omitempty"`
	Values []data.Value `json:"values"`
	Filter string       `json:"filter"`
}

// Response carries either Unique or Error, never both
type Response struct {
	Token  uint64   `json:"token,omitempty"`
	Unique []string `json:"unique"`
	Error  string   `json:"error,omitempty"`
}

// Compute de-duplicates values by canonical text, keeps those matching
// filter and sorts them with coll. The empty cell is the value "".
func Compute(values []data.Value, filter string, coll *collation.Collator) []string {
	if coll == nil {
		coll = collation.Root()
	}
	needle := strings.ToLower(strings.TrimSpace(filter))

	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0)
	for _, v := range values {
		text := v.Text()
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		if needle != "" && !strings.Contains(strings.ToLower(text), needle) {
			continue
		}
		unique = append(unique, text)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return coll.Compare(unique[i], unique[j]) < 0
	})
	return unique
}
