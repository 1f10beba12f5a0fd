// Command foldbench benchmarks the folding tool and runs in-process
// micro-comparisons.
//
// Usage:
//
//	foldbench run --exe ./src/CDSfold
//	foldbench run --config suite.yaml --html report.html
//	foldbench micro --iterations 2000000
//	foldbench corpus --dir testdata
//	foldbench clean --dir testdata
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// exitCodeFatal is returned when the run could not start at all.
const exitCodeFatal = 1

type globalFlags struct {
	logLevel string
	noColor  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("foldbench failed", "err", err)
		stop()
		os.Exit(exitCodeFatal)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "foldbench",
		Short:         "Benchmark harness for the folding tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(stderr, g)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable coloured log output")

	root.AddCommand(
		newRunCmd(),
		newMicroCmd(),
		newCorpusCmd(),
		newCleanCmd(),
	)
	return root
}

// newLogger builds the tint handler on w. Colour is used only when w is a
// terminal and --no-color is not set.
func newLogger(w io.Writer, g *globalFlags) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, fmt.Errorf("--log-level %q: %w", g.logLevel, err)
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    g.noColor || !isTerminal(w),
	})), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// errUsage marks errors caused by bad flags or config rather than by the
// tool under test.
var errUsage = errors.New("usage")
