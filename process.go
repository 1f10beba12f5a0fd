package foldbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Outcome classifies one timed unit of work.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "OK"
	case OutcomeFailure:
		return "FAILED"
	case OutcomeTimeout:
		return "TIMEOUT"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

var (
	// ErrExecutableNotFound means the tool under test does not exist.
	ErrExecutableNotFound = errors.New("executable not found")

	// ErrNotExecutable means the path exists but cannot be run.
	ErrNotExecutable = errors.New("path is not an executable file")
)

// Sample is one observed measurement. Only successful samples are
// authoritative; ElapsedMS of a failed or timed-out sample is kept for
// diagnostics and never aggregated.
type Sample struct {
	Configuration string
	ElapsedMS     float64
	Outcome       Outcome
	ExitCode      int   // -1 when the process never produced an exit status
	Err           error // Launch or wait error, nil on success
}

// OK reports whether the sample is a successful, authoritative measurement.
func (s Sample) OK() bool { return s.Outcome == OutcomeSuccess }

// Invocation is a fully built command line for the tool under test.
type Invocation struct {
	Path string
	Args []string
}

func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Path}, inv.Args...), " ")
}

// Launcher starts processes. ExecLauncher is the real implementation; tests
// substitute a double that returns scripted exit results.
type Launcher interface {
	Launch(ctx context.Context, inv Invocation) (Process, error)
}

// Process is a started child that can be waited on.
// Wait returns nil for a zero exit status, and an error carrying the exit
// code (see ExitCoder) otherwise.
type Process interface {
	Wait() error
}

// ExitCoder is implemented by errors that carry a process exit status.
// *exec.ExitError satisfies it.
type ExitCoder interface {
	ExitCode() int
}

// ExecLauncher launches real processes with stdout and stderr discarded.
type ExecLauncher struct {
	// WaitDelay bounds how long Wait blocks on I/O after the child is killed.
	WaitDelay time.Duration
}

// Launch implements Launcher.
func (l ExecLauncher) Launch(ctx context.Context, inv Invocation) (Process, error) {
	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	cmd.WaitDelay = l.WaitDelay

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", inv.Path, err)
	}
	return cmd, nil
}

// ProcessRunner times single invocations of the tool under test.
type ProcessRunner struct {
	Executable string
	Launcher   Launcher
	Timeout    time.Duration // Per-invocation bound; 0 waits indefinitely
	Logger     *slog.Logger
}

// NewProcessRunner creates a runner for executable backed by ExecLauncher.
func NewProcessRunner(executable string, logger *slog.Logger) *ProcessRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessRunner{
		Executable: executable,
		Launcher:   ExecLauncher{WaitDelay: time.Second},
		Logger:     logger,
	}
}

// Run invokes `<executable> [cfg.Args...] <inputPath>` once and blocks until
// the child terminates. The timed interval spans launch through wait.
//
// Run never returns an error: a non-zero exit, a launch failure, or a timeout
// becomes a non-successful Sample so the matrix can continue.
func (r *ProcessRunner) Run(ctx context.Context, cfg ConfigurationSpec, inputPath string) Sample {
	logger := r.logger()

	args := make([]string, 0, len(cfg.Args)+1)
	args = append(args, cfg.Args...)
	args = append(args, inputPath)
	inv := Invocation{Path: r.Executable, Args: args}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var waitErr error
	launched := false
	elapsed, _ := TimeRegion(func() error {
		proc, err := r.Launcher.Launch(ctx, inv)
		if err != nil {
			waitErr = err
			return err
		}
		launched = true
		waitErr = proc.Wait()
		return waitErr
	})

	outcome, code := classifyExit(ctx, launched, waitErr)
	sample := Sample{
		Configuration: cfg.Label,
		ElapsedMS:     elapsed,
		Outcome:       outcome,
		ExitCode:      code,
		Err:           waitErr,
	}

	if !sample.OK() {
		logger.Warn("invocation did not succeed",
			"cmd", inv.String(),
			"outcome", outcome,
			"exit_code", code,
			"err", waitErr)
	} else {
		logger.Debug("invocation finished", "cmd", inv.String(), "ms", elapsed)
	}
	return sample
}

func (r *ProcessRunner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// classifyExit maps the result of launch+wait to an Outcome and exit code.
// A deadline on ctx wins over the exit status because the kill produced it.
func classifyExit(ctx context.Context, launched bool, err error) (Outcome, int) {
	if err == nil {
		return OutcomeSuccess, 0
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return OutcomeTimeout, -1
	}
	if !launched {
		return OutcomeFailure, -1
	}

	var coder ExitCoder
	if errors.As(err, &coder) {
		return OutcomeFailure, coder.ExitCode()
	}
	return OutcomeFailure, -1
}

// CheckExecutable verifies the tool under test can be run at all. A bare
// name without a path separator is resolved through PATH.
//
// This is the harness's only fatal precondition and must pass before any
// matrix iteration.
func CheckExecutable(path string) error {
	if path == "" {
		return fmt.Errorf("empty executable path: %w", ErrExecutableNotFound)
	}

	if !strings.ContainsRune(path, os.PathSeparator) {
		if _, err := exec.LookPath(path); err != nil {
			return fmt.Errorf("%s: %w", path, ErrExecutableNotFound)
		}
		return nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrExecutableNotFound)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%s (mode %s): %w", path, info.Mode(), ErrNotExecutable)
	}
	return nil
}
