package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexshd/foldbench"
)

type runFlags struct {
	configPath  string
	executable  string
	workdir     string
	htmlPath    string
	metricsPath string
	workers     int
	timeout     time.Duration
	keepCorpus  bool
	seed        uint64
	lengths     []int
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the inputs × configurations matrix against the tool",
		Long: `Generates the synthetic corpus, runs the tool once per
(input, configuration) pair, and prints a per-cell table followed by
per-configuration statistics.

Individual cell failures are reported and do not change the exit status.
The command exits non-zero only when the executable is missing or the
suite is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := f.suite(cmd)
			if err != nil {
				return err
			}
			return runSuite(cmd, suite, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML suite file")
	fl.StringVar(&f.executable, "exe", "", "path to the tool under test")
	fl.StringVar(&f.workdir, "workdir", "", "directory for corpus files")
	fl.StringVar(&f.htmlPath, "html", "", "write an HTML latency chart to this file")
	fl.StringVar(&f.metricsPath, "metrics-file", "", "write Prometheus metrics to this .prom file")
	fl.IntVar(&f.workers, "workers", 0, "cells run at once (1 = sequential)")
	fl.DurationVar(&f.timeout, "timeout", 0, "per-invocation timeout (0 = none)")
	fl.BoolVar(&f.keepCorpus, "keep-corpus", false, "leave corpus files in place after the run")
	fl.Uint64Var(&f.seed, "seed", foldbench.DefaultSeed, "corpus seed")
	fl.IntSliceVar(&f.lengths, "lengths", nil, "sequence lengths (default from suite)")
	return cmd
}

// suite loads the suite file (or defaults) and applies explicitly set flags.
func (f *runFlags) suite(cmd *cobra.Command) (foldbench.Suite, error) {
	suite := foldbench.DefaultSuite()
	if f.configPath != "" {
		loaded, err := foldbench.LoadSuite(f.configPath)
		if err != nil {
			return foldbench.Suite{}, fmt.Errorf("%w: %w", errUsage, err)
		}
		suite = loaded
	}

	changed := cmd.Flags().Changed
	if changed("exe") {
		suite.Executable = f.executable
	}
	if changed("workdir") {
		suite.Workdir = f.workdir
	}
	if changed("workers") {
		suite.Workers = f.workers
	}
	if changed("timeout") {
		suite.Timeout = f.timeout
	}
	if changed("keep-corpus") {
		suite.KeepCorpus = f.keepCorpus
	}
	if changed("seed") {
		suite.Seed = f.seed
	}
	if changed("lengths") {
		suite.Lengths = f.lengths
	}

	if err := suite.Validate(); err != nil {
		return foldbench.Suite{}, fmt.Errorf("%w: %w", errUsage, err)
	}
	return suite, nil
}

func runSuite(cmd *cobra.Command, suite foldbench.Suite, f *runFlags) error {
	runID := uuid.NewString()
	logger := slog.Default().With("cmd", "run")

	var metrics *foldbench.Metrics
	if f.metricsPath != "" {
		metrics = foldbench.NewMetrics(runID)
	}

	if suite.Workers > 1 {
		logger.Warn("parallel workers share CPU between cells; latencies are not comparable",
			"workers", suite.Workers)
	}

	res, err := foldbench.RunSuite(cmd.Context(), suite, foldbench.RunOptions{
		RunID:   runID,
		Report:  foldbench.NewReport(cmd.OutOrStdout()),
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if metrics != nil {
		if err := metrics.WriteTextfile(f.metricsPath); err != nil {
			logger.Error("metrics export failed", "err", err)
		} else {
			logger.Info("metrics written", "path", f.metricsPath)
		}
	}

	if f.htmlPath != "" {
		stats := res.Aggregator.Summaries()
		if err := foldbench.WriteChartFile(f.htmlPath, stats, "run "+runID); err != nil {
			logger.Error("chart export failed", "err", err)
		} else {
			logger.Info("chart written", "path", f.htmlPath)
		}
	}

	if suite.KeepCorpus {
		fmt.Fprintf(cmd.OutOrStdout(), "\nCorpus kept in %s. Remove with: foldbench clean --dir %s\n",
			suite.Workdir, suite.Workdir)
	}
	return nil
}
