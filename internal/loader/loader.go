// Package loader turns input files into datasets. Every format reduces
// to a header row plus string records, which are normalized the same way.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leengari/pivotgrid/internal/domain/data"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoHeader          = errors.New("no header row")
)

// InputError is a malformed or unreadable source file
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("cannot load %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Load reads path, choosing the parser by extension
func Load(path string) (*data.Dataset, error) {
	var (
		header  []string
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		header, records, err = readDelimited(path, 0)
	case ".tsv", ".tab":
		header, records, err = readDelimited(path, '\t')
	case ".xlsx", ".xlsm":
		header, records, err = readXLSX(path)
	case ".parquet":
		header, records, err = readParquet(path)
	case ".json":
		header, records, err = readJSON(path)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}

	ds, err := build(header, records)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}

	slog.Info("dataset loaded",
		slog.String("path", path),
		slog.Int("columns", len(ds.Columns)),
		slog.Int("rows", ds.Len()),
	)
	return ds, nil
}

// build applies header normalization, pads short records, truncates long
// ones and skips records whose fields are all empty
func build(header []string, records [][]string) (*data.Dataset, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}
	columns := NormalizeHeader(header)

	rows := make([]data.Row, 0, len(records))
	for _, rec := range records {
		if isEmptyRecord(rec) {
			continue
		}
		row := make(data.Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = data.Str(rec[i])
			} else {
				row[col] = data.Empty()
			}
		}
		rows = append(rows, row)
	}
	return data.NewDataset(columns, rows)
}

func isEmptyRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// NormalizeHeader trims names, names blank headers column_N (1-based
// position) and suffixes repeats with " (2)", " (3)", ...
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		candidate := name
		for n := 2; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s (%d)", name, n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}
