// Package export writes a rendered grid (header row first) as delimited
// text or as an xlsx workbook.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leengari/pivotgrid/internal/domain/data"
)

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// CSVCell flattens newlines and quotes the cell when it contains a comma
// or a quote, doubling embedded quotes
func CSVCell(s string) string {
	s = newlines.Replace(s)
	if strings.ContainsAny(s, `,"`) {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// TSVCell flattens tabs and newlines to a single space
func TSVCell(s string) string {
	return strings.ReplaceAll(newlines.Replace(s), "\t", " ")
}

func writeDelimited(w io.Writer, grid [][]string, sep string, cell func(string) string) error {
	bw := bufio.NewWriter(w)
	for _, row := range grid {
		for i, v := range row {
			if i > 0 {
				bw.WriteString(sep)
			}
			bw.WriteString(cell(v))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// CSV writes grid as comma-separated text
func CSV(w io.Writer, grid [][]string) error {
	if err := writeDelimited(w, grid, ",", CSVCell); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// TSV writes grid as tab-separated text
func TSV(w io.Writer, grid [][]string) error {
	if err := writeDelimited(w, grid, "\t", TSVCell); err != nil {
		return fmt.Errorf("failed to write tsv: %w", err)
	}
	return nil
}

// TSVString is the clipboard form of grid
func TSVString(grid [][]string) string {
	var b strings.Builder
	writeDelimited(&b, grid, "\t", TSVCell)
	return b.String()
}

// XLSX writes grid to a single-sheet workbook. Body cells that parse as
// numbers are stored as numbers.
func XLSX(w io.Writer, grid [][]string, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Data"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for r, row := range grid {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = v
			if r > 0 {
				if n, ok := data.ParseNumber(v); ok {
					cells[c] = n
				}
			}
		}
		axis, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

// ErrClipboard wraps any failure to hand text to the system clipboard
var ErrClipboard = errors.New("clipboard unavailable")

// Clipboard receives copied text
type Clipboard interface {
	WriteText(text string) error
}

// CopyTSV copies grid to cb as tab-separated text
func CopyTSV(cb Clipboard, grid [][]string) error {
	if cb == nil {
		return ErrClipboard
	}
	if err := cb.WriteText(TSVString(grid)); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboard, err)
	}
	return nil
}
