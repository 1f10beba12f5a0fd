package foldbench

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// RunOptions wires the outer surfaces of a suite run. Every field is
// optional.
type RunOptions struct {
	RunID    string   // Generated when empty
	Launcher Launcher // ExecLauncher when nil
	Report   *Report
	Metrics  *Metrics
	Logger   *slog.Logger
}

// RunResult is everything one suite run produced.
type RunResult struct {
	RunID      string
	Cells      []Cell
	Aggregator *Aggregator
	Files      []string // Corpus files written for the run
}

// Failed returns the cells that did not succeed.
func (r *RunResult) Failed() []Cell {
	var out []Cell
	for _, c := range r.Cells {
		if !c.Sample.OK() {
			out = append(out, c)
		}
	}
	return out
}

// RunSuite executes one complete matrix run:
//
//  1. verify the executable (fatal if missing, nothing else runs)
//  2. generate and write the corpus into suite.Workdir
//  3. sweep lengths × configurations
//  4. write the summary, and remove the corpus unless KeepCorpus is set
//
// Each call uses a fresh Aggregator.
func RunSuite(ctx context.Context, suite Suite, o RunOptions) (*RunResult, error) {
	if err := suite.Validate(); err != nil {
		return nil, err
	}
	if err := CheckExecutable(suite.Executable); err != nil {
		return nil, fmt.Errorf("preflight: %w", err)
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runID := o.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger = logger.With("run_id", runID)

	workdir := suite.Workdir
	if workdir == "" {
		workdir = "."
	}
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return nil, fmt.Errorf("workdir: %w", err)
	}

	cases, err := GenerateCorpus(suite.Lengths, suite.Seed)
	if err != nil {
		return nil, err
	}

	result := &RunResult{RunID: runID, Aggregator: NewAggregator()}
	if !suite.KeepCorpus {
		defer func() {
			for _, path := range result.Files {
				if err := os.Remove(path); err != nil {
					logger.Warn("corpus cleanup failed", "path", path, "err", err)
				}
			}
		}()
	}

	inputs := make([]MatrixInput, 0, len(cases))
	for _, c := range cases {
		path, err := WriteCase(workdir, c)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
		inputs = append(inputs, MatrixInput{Case: c, Path: path})
		logger.Debug("corpus file written", "path", path, "length", c.Length)
	}

	runner := NewProcessRunner(suite.Executable, logger)
	runner.Timeout = suite.Timeout
	if o.Launcher != nil {
		runner.Launcher = o.Launcher
	}

	if o.Report != nil {
		o.Report.Header(runID)
	}

	matrix := &MatrixRunner{
		Runner:     runner,
		Aggregator: result.Aggregator,
		Workers:    suite.Workers,
		Logger:     logger,
		OnCell: func(c Cell) {
			if o.Report != nil {
				o.Report.Cell(c)
			}
			if o.Metrics != nil {
				o.Metrics.Observe(c)
			}
		},
	}

	cells, err := matrix.Run(ctx, inputs, suite.Configurations)
	result.Cells = cells
	if err != nil {
		return result, fmt.Errorf("matrix: %w", err)
	}

	if o.Report != nil {
		o.Report.Summary(result.Aggregator, suite.Configurations)
	}

	logger.Info("suite finished",
		"cells", len(cells),
		"failed", len(result.Failed()))
	return result, nil
}
