// Package derive adds formula columns to a dataset and replays saved
// column definitions after a reload.
package derive

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leengari/pivotgrid/internal/domain/data"
	"github.com/leengari/pivotgrid/internal/formula"
)

var (
	ErrEmptyName    = errors.New("column name must not be empty")
	ErrEmptyFormula = errors.New("formula must not be empty")
)

// Definition is a user-authored derived column
type Definition struct {
	Name        string
	Formula     string
	InsertAfter string
}

// ValidationError rejects a definition before any row is evaluated.
// Field is "name" or "formula".
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Result describes one applied definition
type Result struct {
	Column    string
	Index     int
	Evaluated int
	Failed    int
}

// Validate checks a definition against the dataset and compiles its
// formula. It returns the compiled program on success.
func Validate(ds *data.Dataset, def Definition) (*formula.Program, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	if ds.HasColumn(name) {
		return nil, &ValidationError{Field: "name", Err: fmt.Errorf("%w: %q", data.ErrDuplicateColumn, name)}
	}
	if strings.TrimSpace(def.Formula) == "" {
		return nil, &ValidationError{Field: "formula", Err: ErrEmptyFormula}
	}

	prog, err := formula.Compile(def.Formula)
	if err != nil {
		return nil, &ValidationError{Field: "formula", Err: err}
	}
	return prog, nil
}

// Apply evaluates def against every row and returns a new dataset with
// the column spliced in after def.InsertAfter (or appended). The input
// dataset is not modified. Rows that fail to evaluate get an empty value
// and are counted in Result.Failed.
func Apply(ds *data.Dataset, def Definition) (*data.Dataset, Result, error) {
	prog, err := Validate(ds, def)
	if err != nil {
		return nil, Result{}, err
	}

	name := strings.TrimSpace(def.Name)
	out := ds.Clone()
	idx, err := out.InsertColumn(name, def.InsertAfter)
	if err != nil {
		return nil, Result{}, &ValidationError{Field: "name", Err: err}
	}

	res := Result{Column: name, Index: idx}
	for i, row := range out.Rows {
		v, err := prog.Eval(row)
		if err != nil {
			res.Failed++
			slog.Debug("formula row failed", "column", name, "row", i, "error", err)
		}
		row[name] = v
		res.Evaluated++
	}

	return out, res, nil
}

// Skipped is a saved definition that Replay could not apply
type Skipped struct {
	Definition Definition
	Err        error
}

// Report is the outcome of a Replay
type Report struct {
	Applied []Result
	Skipped []Skipped
}

// Replay applies saved definitions in order against a freshly loaded
// dataset. A later definition may reference columns produced by an
// earlier one. Definitions that no longer validate (for example a name
// that now collides with a raw column) are skipped and reported.
func Replay(ds *data.Dataset, defs []Definition) (*data.Dataset, Report) {
	var report Report
	current := ds
	for _, def := range defs {
		next, res, err := Apply(current, def)
		if err != nil {
			slog.Warn("skipping saved custom column", "column", def.Name, "error", err)
			report.Skipped = append(report.Skipped, Skipped{Definition: def, Err: err})
			continue
		}
		current = next
		report.Applied = append(report.Applied, res)
	}
	if current == ds {
		current = ds.Clone()
	}
	return current, report
}
