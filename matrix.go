package foldbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateLabel is returned when two configurations share a label.
var ErrDuplicateLabel = errors.New("duplicate configuration label")

// ConfigurationSpec is a named set of flags passed verbatim to the tool.
type ConfigurationSpec struct {
	Label string   `yaml:"label" validate:"required"`
	Args  []string `yaml:"args"`
}

// MatrixInput is an input case together with the path the tool reads it from.
type MatrixInput struct {
	Case InputCase
	Path string
}

// Cell is the result of one (input, configuration) pair.
type Cell struct {
	Input         MatrixInput
	Config        ConfigurationSpec
	Sample        Sample
	Throughput    float64 // Symbols per second; meaningful only if HasThroughput
	HasThroughput bool
}

// Throughput derives symbols per second for a successful run of length
// symbols. It reports false when no rate can be derived.
func Throughput(length int, elapsedMS float64) (float64, bool) {
	if elapsedMS <= 0 || length <= 0 {
		return 0, false
	}
	return float64(length) * 1000 / elapsedMS, true
}

// SampleRunner runs one configuration against one input file.
// *ProcessRunner implements it.
type SampleRunner interface {
	Run(ctx context.Context, cfg ConfigurationSpec, inputPath string) Sample
}

// MatrixRunner sweeps inputs × configurations.
type MatrixRunner struct {
	Runner     SampleRunner
	Aggregator *Aggregator

	// Workers is the number of cells run at once. Values below 2 run the
	// matrix strictly sequentially, which is what latency comparisons
	// should use: concurrent children contend for cores and caches.
	Workers int

	// OnCell, if set, is called once per cell in matrix order (inputs
	// outer, configurations inner) regardless of Workers.
	OnCell func(Cell)

	Logger *slog.Logger
}

// Run executes every (input, configuration) pair exactly once and returns the
// cells in matrix order. Successful samples are recorded into the Aggregator;
// unsuccessful ones appear only in the returned cells.
//
// Errors are returned only for an invalid matrix or a cancelled context; a
// failing cell never stops the sweep.
func (m *MatrixRunner) Run(ctx context.Context, inputs []MatrixInput, configs []ConfigurationSpec) ([]Cell, error) {
	if m.Runner == nil {
		return nil, errors.New("matrix runner has no sample runner")
	}
	if err := validateConfigurations(configs); err != nil {
		return nil, err
	}
	if m.Aggregator == nil {
		m.Aggregator = NewAggregator()
	}

	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("matrix started",
		"inputs", len(inputs),
		"configurations", len(configs),
		"workers", max(m.Workers, 1))

	cells := make([]Cell, len(inputs)*len(configs))
	for i, in := range inputs {
		for j, cfg := range configs {
			cells[i*len(configs)+j] = Cell{Input: in, Config: cfg}
		}
	}

	if m.Workers < 2 {
		for i := range cells {
			if err := ctx.Err(); err != nil {
				return cells[:i], err
			}
			m.runCell(ctx, &cells[i])
			m.emit(cells[i])
		}
		logger.Info("matrix finished", "cells", len(cells))
		return cells, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.Workers)
	for i := range cells {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m.runCell(gctx, &cells[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, c := range cells {
		m.emit(c)
	}
	logger.Info("matrix finished", "cells", len(cells))
	return cells, nil
}

func (m *MatrixRunner) runCell(ctx context.Context, c *Cell) {
	c.Sample = m.Runner.Run(ctx, c.Config, c.Input.Path)
	c.Sample.Configuration = c.Config.Label
	if !c.Sample.OK() {
		return
	}
	c.Throughput, c.HasThroughput = Throughput(c.Input.Case.Length, c.Sample.ElapsedMS)
	m.Aggregator.Record(c.Config.Label, c.Sample.ElapsedMS)
}

func (m *MatrixRunner) emit(c Cell) {
	if m.OnCell != nil {
		m.OnCell(c)
	}
}

func validateConfigurations(configs []ConfigurationSpec) error {
	if len(configs) == 0 {
		return errors.New("no configurations to run")
	}
	seen := make(map[string]bool, len(configs))
	for _, cfg := range configs {
		if cfg.Label == "" {
			return errors.New("configuration with empty label")
		}
		if seen[cfg.Label] {
			return fmt.Errorf("%q: %w", cfg.Label, ErrDuplicateLabel)
		}
		seen[cfg.Label] = true
	}
	return nil
}
