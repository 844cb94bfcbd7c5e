// Package pivot builds the configuration handed to the cross-tab renderer.
package pivot

import (
	"strings"

	"github.com/leengari/pivotgrid/internal/classify"
	"github.com/leengari/pivotgrid/internal/domain/view"
)

var numericAggregatorKeywords = []string{
	"sum", "avg", "mean", "median", "p25", "p50", "p75",
	"min", "max", "stdev", "var", "fraction", "bound", "integer sum",
}

// IsNumericAggregator reports whether an aggregator needs numeric values,
// judged by keywords in its name ("Sum", "Integer Sum", "Sum over Sum")
func IsNumericAggregator(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range numericAggregatorKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// RenderConfig is the renderer input for one pivot view
type RenderConfig struct {
	Rows                  []string `json:"rows"`
	Cols                  []string `json:"cols"`
	AggregatorName        string   `json:"aggregatorName"`
	Vals                  []string `json:"vals"`
	RendererName          string   `json:"rendererName"`
	HiddenAttributes      []string `json:"hiddenAttributes"`
	HiddenFromAggregators []string `json:"hiddenFromAggregators"`
	AttrDropdown          []string `json:"attrDropdown"`
}

// BuildRenderConfig restricts a saved layout to what the current dataset
// supports: rows and cols must be textual columns, and vals must be
// numeric columns when the aggregator is numeric. hidden is the user's
// hidden-columns set.
func BuildRenderConfig(cfg view.PivotConfig, columns []string, c classify.Classification, hidden []string) RenderConfig {
	if cfg.AggregatorName == "" {
		cfg.AggregatorName = view.DefaultPivotConfig().AggregatorName
	}
	if cfg.RendererName == "" {
		cfg.RendererName = view.DefaultPivotConfig().RendererName
	}

	declared := make(map[string]bool, len(columns))
	for _, col := range columns {
		declared[col] = true
	}
	textual := func(col string) bool { return declared[col] && !c.IsNumeric(col) }
	numeric := func(col string) bool { return declared[col] && c.IsNumeric(col) }

	numericAgg := IsNumericAggregator(cfg.AggregatorName)
	out := RenderConfig{
		Rows:                  keep(cfg.Rows, textual),
		Cols:                  keep(cfg.Cols, textual),
		AggregatorName:        cfg.AggregatorName,
		RendererName:          cfg.RendererName,
		HiddenAttributes:      keep(columns, contains(hidden)),
		HiddenFromAggregators: []string{},
	}

	numericCols := keep(columns, numeric)
	if numericAgg {
		out.Vals = keep(cfg.Vals, numeric)
		if len(out.Vals) == 0 && len(numericCols) > 0 {
			out.Vals = []string{numericCols[0]}
		}
		out.HiddenFromAggregators = keep(columns, func(col string) bool { return !c.IsNumeric(col) })
		out.AttrDropdown = numericCols
	} else {
		out.Vals = keep(cfg.Vals, func(col string) bool { return declared[col] })
		out.AttrDropdown = append([]string{}, columns...)
	}
	return out
}

func keep(cols []string, pred func(string) bool) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		if pred(col) {
			out = append(out, col)
		}
	}
	return out
}

func contains(set []string) func(string) bool {
	m := make(map[string]bool, len(set))
	for _, s := range set {
		m[s] = true
	}
	return func(col string) bool { return m[col] }
}
