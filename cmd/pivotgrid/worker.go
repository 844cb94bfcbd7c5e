package main

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leengari/pivotgrid/internal/collation"
	"github.com/leengari/pivotgrid/internal/logging"
	"github.com/leengari/pivotgrid/internal/worker"
)

// maxRequestSize bounds one JSON request line
const maxRequestSize = 64 << 20

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Answer unique-value requests, one JSON object per line on stdin",
		Long: `Reads requests of the form {"values": [...], "filter": "..."} from stdin
and writes one response per line: {"token": N, "unique": [...]} or
{"error": "..."} for a malformed request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, closeLog := logging.SetupLogger(cfg.Log)
			defer closeLog()
			slog.SetDefault(logger)

			coll, err := collation.New(cfg.Locale)
			if err != nil {
				return err
			}
			pool := worker.NewPool(cfg.WorkerPoolSize, cfg.WorkerTimeout, coll)
			defer pool.Close()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush()

			served := 0
			for scanner.Scan() {
				line := bytes.TrimSpace(scanner.Bytes())
				if len(line) == 0 {
					continue
				}
				out.Write(pool.HandleMessage(cmd.Context(), line))
				out.WriteByte('\n')
				served++
			}
			slog.Debug("unique-value worker finished", "requests", served)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read requests: %w", err)
			}
			return nil
		},
	}
}
