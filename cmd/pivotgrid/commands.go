package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leengari/pivotgrid/internal/derive"
	"github.com/leengari/pivotgrid/internal/engine"
	"github.com/leengari/pivotgrid/internal/export"
	"github.com/leengari/pivotgrid/internal/query/sorting"
	"github.com/leengari/pivotgrid/internal/render"
	"github.com/leengari/pivotgrid/internal/repl"
)

func newShowCmd() *cobra.Command {
	var (
		filters []string
		sortKey string
		page    int
		hide    []string
	)
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Render one page of the filtered and sorted data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			if err := applyQuery(a.eng, filters, sortKey); err != nil {
				return err
			}
			for _, col := range hide {
				if err := a.eng.HideColumn(col); err != nil {
					return err
				}
			}
			a.eng.SetPage(page)

			pv, err := a.eng.Materialize()
			if err != nil {
				return err
			}
			return render.Render(cmd.OutOrStdout(), repl.Table(a.eng, pv))
		},
	}
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "column filter col=v1,v2 (repeatable)")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort key col:asc or col:desc")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringSliceVar(&hide, "hide", nil, "columns to hide (saved)")
	return cmd
}

// applyQuery applies --filter and --sort flag values
func applyQuery(eng *engine.Engine, filters []string, sortKey string) error {
	for _, f := range filters {
		col, values, ok := strings.Cut(f, "=")
		if !ok {
			return fmt.Errorf("invalid filter %q, want col=v1,v2", f)
		}
		if err := eng.SetFilter(col, strings.Split(values, ",")); err != nil {
			return err
		}
	}

	if sortKey == "" {
		return nil
	}
	col, dirText, _ := strings.Cut(sortKey, ":")
	dir := sorting.Ascending
	if dirText != "" {
		var err error
		if dir, err = sorting.ParseDirection(dirText); err != nil {
			return err
		}
	}
	return eng.SetSort(col, dir)
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns <file>",
		Short: "Print each column with its classification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()
			return repl.New(a.eng, cmd.OutOrStdout()).Execute("columns")
		},
	}
}

func newUniqueCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "unique <file> <column>",
		Short: "List the distinct values of a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			values, err := a.eng.FilterCandidates(cmd.Context(), args[1], search)
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive substring filter")
	return cmd
}

func newAddColumnCmd() *cobra.Command {
	var def derive.Definition
	cmd := &cobra.Command{
		Use:   "add-column <file>",
		Short: "Add and save a formula column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.eng.AddCustomColumn(def)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added column %q at position %d (%d rows, %d failed)\n",
				res.Column, res.Index+1, res.Evaluated, res.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&def.Name, "name", "", "new column name")
	cmd.Flags().StringVar(&def.Formula, "formula", "", "formula, e.g. [price] * [qty]")
	cmd.Flags().StringVar(&def.InsertAfter, "after", "", "insert after this column")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("formula")
	return cmd
}

func newViewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Manage saved pivot views",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, "")
			if err != nil {
				return err
			}
			defer a.Close()

			catalog, err := a.eng.Views()
			if err != nil {
				return err
			}
			for _, v := range catalog.Views {
				marker := " "
				if v.ID == catalog.ActiveViewID {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-44s %s\n", marker, v.ID, v.Title)
			}
			return nil
		},
	}, &cobra.Command{
		Use:   "add <title>",
		Short: "Create a view and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, "")
			if err != nil {
				return err
			}
			defer a.Close()

			v, err := a.eng.AddView(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.ID)
			return nil
		},
	}, &cobra.Command{
		Use:   "export <out.json>",
		Short: "Write the views to a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, "")
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := a.eng.ExportViews()
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], doc, 0644)
		},
	}, &cobra.Command{
		Use:   "import <in.json>",
		Short: "Replace the views with an exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd, "")
			if err != nil {
				return err
			}
			defer a.Close()
			return a.eng.ImportViews(raw)
		},
	}, &cobra.Command{
		Use:   "config <file>",
		Short: "Print the renderer configuration of the active view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			rc, err := a.eng.RenderConfig()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rc)
		},
	})
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		format   string
		output   string
		allPages bool
		filters  []string
		sortKey  string
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the filtered and sorted data as csv, tsv or xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" && output != "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			write, err := exporter(format)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			if err := applyQuery(a.eng, filters, sortKey); err != nil {
				return err
			}
			grid, err := a.eng.ExportGrid(allPages)
			if err != nil {
				return err
			}

			if output == "" {
				return write(cmd.OutOrStdout(), grid)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := write(f, grid); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "csv, tsv or xlsx (default from --output, else csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&allPages, "all", true, "export every filtered row, not just the first page")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "column filter col=v1,v2 (repeatable)")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort key col:asc or col:desc")
	return cmd
}

func exporter(format string) (func(io.Writer, [][]string) error, error) {
	switch strings.ToLower(format) {
	case "", "csv":
		return export.CSV, nil
	case "tsv":
		return export.TSV, nil
	case "xlsx":
		return func(w io.Writer, grid [][]string) error { return export.XLSX(w, grid, "Data") }, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell <file>",
		Short: "Explore a file interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			session := repl.New(a.eng, cmd.OutOrStdout())
			if err := session.Execute("show"); err != nil {
				return err
			}
			session.Run(cmd.InOrStdin())
			return nil
		},
	}
}
