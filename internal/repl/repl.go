package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leengari/pivotgrid/internal/derive"
	"github.com/leengari/pivotgrid/internal/engine"
	"github.com/leengari/pivotgrid/internal/export"
	"github.com/leengari/pivotgrid/internal/query/sorting"
	"github.com/leengari/pivotgrid/internal/render"
)

const help = `Commands:
  show                          render the current page
  filter <col> <v1,v2,...>      allow only the listed values
  unfilter [col]                drop one (or every) column filter
  clear <col>                   exclude every value of a column
  sort <col> [asc|desc|none]    toggle the sort key
  page <n> | next | prev        move between pages
  size <n>                      change the page size
  hide <col> | unhide <col>     hide or show a column
  add <name> [after <col>] = <formula>
                                add a custom column
  unique <col> [search]         list filter candidates
  columns                       show the column classification
  copy                          copy the page to the clipboard as TSV
  exit                          quit`

// Session reads commands from in and writes results to out
type Session struct {
	eng       *engine.Engine
	out       io.Writer
	clipboard export.Clipboard
}

func New(eng *engine.Engine, out io.Writer) *Session {
	return &Session{eng: eng, out: out, clipboard: export.SystemClipboard{}}
}

// SetClipboard replaces the clipboard used by copy
func (s *Session) SetClipboard(cb export.Clipboard) { s.clipboard = cb }

// Run processes commands until exit or end of input
func (s *Session) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(s.out, "Welcome to pivotgrid")
	fmt.Fprintln(s.out, "Type 'help' for commands, 'exit' or '\\q' to quit.")

	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "\\q" {
			return
		}

		if err := s.Execute(line); err != nil {
			fmt.Fprintln(s.out, render.Error(err))
		}
	}
}

// Execute runs one command line
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	args := splitArgs(line)
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprintln(s.out, help)
		return nil
	case "show":
		return s.show()
	case "columns":
		return s.columns()
	case "unique":
		if len(args) < 1 {
			return usage("unique <col> [search]")
		}
		values, err := s.eng.FilterCandidates(context.Background(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		for _, v := range values {
			if v == "" {
				v = "(empty)"
			}
			fmt.Fprintln(s.out, v)
		}
		return nil
	case "copy":
		grid, err := s.eng.ExportGrid(false)
		if err != nil {
			return err
		}
		if err := export.CopyTSV(s.clipboard, grid); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Copied %d rows\n", len(grid)-1)
		return nil
	}

	if err := s.mutate(cmd, args, line); err != nil {
		return err
	}
	return s.show()
}

// mutate applies a state-changing command
func (s *Session) mutate(cmd string, args []string, line string) error {
	switch cmd {
	case "filter":
		if len(args) < 2 {
			return usage("filter <col> <v1,v2,...>")
		}
		return s.eng.SetFilter(args[0], strings.Split(strings.Join(args[1:], " "), ","))
	case "unfilter":
		if len(args) == 0 {
			s.eng.ClearAllFilters()
			return nil
		}
		return s.eng.ResetFilter(args[0])
	case "clear":
		if len(args) != 1 {
			return usage("clear <col>")
		}
		return s.eng.ClearFilter(args[0])
	case "sort":
		if len(args) < 1 {
			return usage("sort <col> [asc|desc|none]")
		}
		dir := sorting.Ascending
		if len(args) > 1 {
			var err error
			if dir, err = sorting.ParseDirection(args[1]); err != nil {
				return err
			}
		}
		if dir == sorting.None {
			return s.eng.SetSort(args[0], dir)
		}
		return s.eng.ToggleSort(args[0], dir)
	case "page":
		n, err := intArg(args, "page <n>")
		if err != nil {
			return err
		}
		s.eng.SetPage(n)
		return nil
	case "next":
		s.eng.NextPage()
		return nil
	case "prev":
		s.eng.PrevPage()
		return nil
	case "size":
		n, err := intArg(args, "size <n>")
		if err != nil {
			return err
		}
		return s.eng.SetPageSize(n)
	case "hide":
		if len(args) != 1 {
			return usage("hide <col>")
		}
		return s.eng.HideColumn(args[0])
	case "unhide":
		if len(args) != 1 {
			return usage("unhide <col>")
		}
		return s.eng.ShowColumn(args[0])
	case "add":
		return s.add(strings.TrimSpace(line[len(cmd):]))
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
}

// add parses "<name> [after <col>] = <formula>"
func (s *Session) add(rest string) error {
	head, formula, ok := strings.Cut(rest, "=")
	if !ok {
		return usage("add <name> [after <col>] = <formula>")
	}
	name, anchor, _ := strings.Cut(strings.TrimSpace(head), " after ")
	def := derive.Definition{
		Name:        unquote(name),
		Formula:     strings.TrimSpace(formula),
		InsertAfter: unquote(anchor),
	}

	res, err := s.eng.AddCustomColumn(def)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added column %q (%d rows, %d failed)\n", res.Column, res.Evaluated, res.Failed)
	return nil
}

func (s *Session) show() error {
	pv, err := s.eng.Materialize()
	if err != nil {
		return err
	}
	return render.Render(s.out, Table(s.eng, pv))
}

// Table prepares a page for render.Render
func Table(eng *engine.Engine, pv engine.PageView) render.Table {
	classes := eng.Classification()
	numeric := make(map[string]bool, len(pv.Columns))
	for _, col := range pv.Columns {
		numeric[col] = classes.IsNumeric(col)
	}

	footer := fmt.Sprintf("page %d of %d, %d rows", pv.Page, pv.TotalPages, pv.TotalRows)
	if pv.Sort.Active() {
		footer += fmt.Sprintf(", sorted by %s %s", pv.Sort.Column, pv.Sort.Direction)
	}
	return render.Table{Grid: pv.Grid, Numeric: numeric, Footer: footer}
}

func (s *Session) columns() error {
	cols := s.eng.Columns()
	if cols == nil {
		return engine.ErrNoDataset
	}
	classes := s.eng.Classification()
	hidden := make(map[string]bool)
	for _, col := range s.eng.HiddenColumns() {
		hidden[col] = true
	}
	for _, col := range cols {
		line := fmt.Sprintf("%-24s %s", col, classes.Kind(col))
		if hidden[col] {
			line += " (hidden)"
		}
		fmt.Fprintln(s.out, line)
	}
	return nil
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

func usage(u string) error {
	return fmt.Errorf("usage: %s", u)
}

func intArg(args []string, u string) (int, error) {
	if len(args) != 1 {
		return 0, usage(u)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usage(u)
	}
	return n, nil
}

// splitArgs splits on whitespace; double quotes group words so column
// names may contain spaces
func splitArgs(line string) []string {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, cur.String())
	}
	return args
}
