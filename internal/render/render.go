// Package render draws a materialized page for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Foreground(lipgloss.Color("10")).Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// MaxCellWidth bounds the rendered width of one column
const MaxCellWidth = 32

// Table describes what to draw: a grid with its header row first, the
// columns to right-align and a status footer
type Table struct {
	Grid    [][]string
	Numeric map[string]bool
	Footer  string
}

// Render writes t to w
func Render(w io.Writer, t Table) error {
	if len(t.Grid) == 0 {
		_, err := fmt.Fprintln(w, dimStyle.Render("(no columns)"))
		return err
	}

	header := t.Grid[0]
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = truncate(h, MaxCellWidth)
	}

	rows := make([][]string, 0, len(t.Grid)-1)
	for _, row := range t.Grid[1:] {
		cells := make([]string, len(header))
		for i := range header {
			if i < len(row) {
				cells[i] = truncate(row[i], MaxCellWidth)
			}
		}
		rows = append(rows, cells)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col < len(header) && t.Numeric[header[col]] {
				return numberStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(tbl.String())
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("(no rows)"))
		b.WriteString("\n")
	}
	if t.Footer != "" {
		b.WriteString(statusStyle.Render(t.Footer))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Error formats a user-visible failure notice
func Error(err error) string {
	return errorStyle.Render("Error: " + err.Error())
}

// truncate cuts s to width display cells, ending in an ellipsis
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
