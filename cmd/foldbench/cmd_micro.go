package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/alexshd/foldbench"
)

type microFlags struct {
	iterations int
	warmup     int
	only       []string
	seed       uint64
}

func newMicroCmd() *cobra.Command {
	f := &microFlags{}

	cmd := &cobra.Command{
		Use:   "micro",
		Short: "Time baseline vs candidate implementations in-process",
		Long: `Runs each built-in comparison: both implementations are first
checked to produce the same result, then timed sequentially over the same
pre-generated data. Negative improvements are regressions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comparisons, err := selectComparisons(foldbench.BuiltinComparisons(f.seed), f.only)
			if err != nil {
				return err
			}

			cfg := foldbench.DefaultConfig()
			cfg.Warmup = f.warmup
			if cmd.Flags().Changed("iterations") {
				if f.iterations <= 0 {
					return fmt.Errorf("%w: --iterations must be positive", errUsage)
				}
				cfg.Override = f.iterations
			}

			logger := slog.Default().With("cmd", "micro")
			engine := foldbench.NewEngine(cfg, logger)
			report := foldbench.NewReport(cmd.OutOrStdout())

			engine.RunAll(comparisons, report.Comparison, func(name string, err error) {
				logger.Error("comparison skipped", "comparison", name, "err", err)
				report.ComparisonError(name, err)
			})
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.iterations, "iterations", "n", 0, "iterations per side for every comparison (default: per comparison)")
	fl.IntVar(&f.warmup, "warmup", 0, "untimed iterations per side before measuring")
	fl.StringSliceVar(&f.only, "only", nil, "run only these comparisons")
	fl.Uint64Var(&f.seed, "seed", foldbench.DefaultSeed, "seed for comparison input data")
	return cmd
}

func selectComparisons(all []foldbench.Comparison, only []string) ([]foldbench.Comparison, error) {
	if len(only) == 0 {
		return all, nil
	}

	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name)
	}

	selected := make([]foldbench.Comparison, 0, len(only))
	for _, name := range only {
		i := slices.Index(names, name)
		if i < 0 {
			return nil, fmt.Errorf("%w: unknown comparison %q (have %v)", errUsage, name, names)
		}
		selected = append(selected, all[i])
	}
	return selected, nil
}
