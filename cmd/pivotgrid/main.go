// Command pivotgrid loads a tabular file and filters, sorts, pages,
// derives and exports it from the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leengari/pivotgrid/internal/config"
	"github.com/leengari/pivotgrid/internal/engine"
	"github.com/leengari/pivotgrid/internal/logging"
	"github.com/leengari/pivotgrid/internal/storage"
)

var (
	configPath string
	overrides  config.Config
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "pivotgrid",
		Short:        "Explore tabular data: filter, sort, page, derive and export",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.StringVar(&overrides.Namespace, "namespace", "", "configuration namespace")
	flags.StringVar(&overrides.Store.Driver, "store", "", "config store driver: memory, file or sqlite")
	flags.StringVar(&overrides.Store.Path, "store-path", "", "config store directory or database file")
	flags.StringVar(&overrides.Log.Level, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&overrides.Log.SeqURL, "seq-url", "", "Seq server URL for structured logs")
	flags.StringVar(&overrides.Locale, "locale", "", "collation locale for sorting (BCP 47)")
	flags.IntVar(&overrides.PageSize, "page-size", 0, "rows per page")

	rootCmd.AddCommand(
		newShowCmd(),
		newColumnsCmd(),
		newUniqueCmd(),
		newAddColumnCmd(),
		newViewsCmd(),
		newExportCmd(),
		newShellCmd(),
		newWorkerCmd(),
	)
	return rootCmd
}

// loadConfig overlays the file on the defaults and the flags on the file
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("namespace", func() { cfg.Namespace = overrides.Namespace })
	set("store", func() { cfg.Store.Driver = overrides.Store.Driver })
	set("store-path", func() { cfg.Store.Path = overrides.Store.Path })
	set("log-level", func() { cfg.Log.Level = overrides.Log.Level })
	set("seq-url", func() { cfg.Log.SeqURL = overrides.Log.SeqURL })
	set("locale", func() { cfg.Locale = overrides.Locale })
	set("page-size", func() { cfg.PageSize = overrides.PageSize })

	return cfg, cfg.Validate()
}

// app is an engine plus the resources it holds open
type app struct {
	eng     *engine.Engine
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// openApp sets up logging, opens the config store and builds the engine.
// When path is non-empty the dataset is loaded as well.
func openApp(cmd *cobra.Command, path string) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, closeLog := logging.SetupLogger(cfg.Log)
	slog.SetDefault(logger)
	a := &app{closers: []func(){closeLog}}

	store, err := storage.Open(cfg.Store.Driver, cfg.Store.Path, cfg.Namespace)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open config store: %w", err)
	}
	a.closers = append(a.closers, func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close config store", "error", err)
		}
	})

	eng, err := engine.New(cfg, storage.NewAdapter(store, cfg.Namespace))
	if err != nil {
		a.Close()
		return nil, err
	}
	eng.AddObserver(engine.NewLoggingObserver(logger, slog.LevelDebug))
	a.eng = eng
	a.closers = append(a.closers, eng.Close)

	if path != "" {
		report, err := eng.Load(path)
		if err != nil {
			a.Close()
			return nil, err
		}
		for _, skipped := range report.Skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped custom column %q: %v\n", skipped.Definition.Name, skipped.Err)
		}
	}
	return a, nil
}
