package foldbench

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
)

// Op is one unit of in-process work. It should close over input data that
// was generated before timing starts, identical for the baseline and the
// candidate, so only the operation's own cost differs.
//
// The returned value is folded into an accumulator that escapes the timed
// loop. Return something that depends on the work done, or the compiler is
// free to hoist or drop it.
type Op func() int

var (
	// ErrInvalidIterations is returned for a non-positive iteration count.
	ErrInvalidIterations = errors.New("iteration count must be positive")

	// ErrBaselineTooCoarse means the baseline loop finished within one clock
	// tick, so no improvement percentage can be derived.
	ErrBaselineTooCoarse = errors.New("baseline time is zero: raise the iteration count")

	// ErrMismatch means the baseline and candidate disagree on the result,
	// so they are not interchangeable and timing them is meaningless.
	ErrMismatch = errors.New("baseline and candidate results differ")
)

// sink receives every loop accumulator. It is an atomic so the store cannot
// be proven dead and removed with the loop feeding it.
var sink atomic.Int64

// publish makes acc observable outside the timed loop.
func publish(acc int) {
	sink.Store(int64(acc))
	runtime.KeepAlive(acc)
}

// ComparisonResult holds the timing of one baseline-vs-candidate comparison.
type ComparisonResult struct {
	Name        string
	Iterations  int
	BaselineMS  float64
	CandidateMS float64
}

// Improvement returns (baseline − candidate) / baseline × 100.
// Regressions are negative and returned as is. When the baseline measured
// zero it returns ErrBaselineTooCoarse, never a 0% result.
func (r ComparisonResult) Improvement() (float64, error) {
	pct, err := ImprovementPct(r.BaselineMS, r.CandidateMS)
	if err != nil {
		return 0, fmt.Errorf("%s at %d iterations: %w", r.Name, r.Iterations, err)
	}
	return pct, nil
}

// BaselineOpsPerMS is the baseline rate in iterations per millisecond.
func (r ComparisonResult) BaselineOpsPerMS() (float64, bool) {
	return opsPerMS(r.Iterations, r.BaselineMS)
}

// CandidateOpsPerMS is the candidate rate in iterations per millisecond.
func (r ComparisonResult) CandidateOpsPerMS() (float64, bool) {
	return opsPerMS(r.Iterations, r.CandidateMS)
}

func opsPerMS(iterations int, ms float64) (float64, bool) {
	if ms <= 0 {
		return 0, false
	}
	return float64(iterations) / ms, true
}

// ImprovementPct computes the signed relative latency reduction of candidate
// against baseline, in percent.
//
// Computed as (b − c) × 100 / b: for whole-millisecond inputs this is exact
// (100 → 75 yields 25, 100 → 120 yields -20).
func ImprovementPct(baselineMS, candidateMS float64) (float64, error) {
	if baselineMS <= 0 {
		return 0, ErrBaselineTooCoarse
	}
	return (baselineMS - candidateMS) * 100 / baselineMS, nil
}

// Compare runs baseline iterations times back to back under one clock
// interval, then candidate the same number of times under a separate one.
//
// The loops are never interleaved: alternating variants would let each warm
// the other's instruction cache.
func Compare(baseline, candidate Op, iterations int) (ComparisonResult, error) {
	if iterations <= 0 {
		return ComparisonResult{}, fmt.Errorf("%d: %w", iterations, ErrInvalidIterations)
	}
	if baseline == nil || candidate == nil {
		return ComparisonResult{}, errors.New("compare: nil operation")
	}

	return ComparisonResult{
		Iterations:  iterations,
		BaselineMS:  timeLoop(baseline, iterations),
		CandidateMS: timeLoop(candidate, iterations),
	}, nil
}

// timeLoop returns the milliseconds taken by n calls of op.
func timeLoop(op Op, n int) float64 {
	var acc int
	ms, _ := TimeRegion(func() error {
		for i := 0; i < n; i++ {
			acc += op()
		}
		return nil
	})
	publish(acc)
	return ms
}

// Comparison names a competing pair of implementations of one operation.
type Comparison struct {
	Name       string
	Baseline   Op
	Candidate  Op
	Iterations int // 0 uses the engine default
}

// Config controls micro-benchmark execution.
type Config struct {
	Iterations int // Default iterations per side (overridden by Comparison.Iterations)
	Warmup     int // Untimed iterations per side before measurement
	Override   int // If > 0, replaces every comparison's iteration count
}

// DefaultConfig returns the standard micro-benchmark settings.
func DefaultConfig() Config {
	return Config{
		Iterations: 1_000_000,
		Warmup:     0,
	}
}

// Engine runs comparisons with a shared configuration.
type Engine struct {
	Config Config
	Logger *slog.Logger
}

// NewEngine creates an engine. A nil logger uses slog.Default.
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{Config: cfg, Logger: logger}
}

// Run cross-checks that both sides of c compute the same value, runs the
// warmup, and then times them with Compare.
func (e *Engine) Run(c Comparison) (ComparisonResult, error) {
	if c.Baseline == nil || c.Candidate == nil {
		return ComparisonResult{Name: c.Name}, fmt.Errorf("%s: nil operation", c.Name)
	}

	if b, k := c.Baseline(), c.Candidate(); b != k {
		return ComparisonResult{Name: c.Name},
			fmt.Errorf("%s: baseline=%d candidate=%d: %w", c.Name, b, k, ErrMismatch)
	}

	iterations := e.iterationsFor(c)
	if e.Config.Warmup > 0 {
		timeLoop(c.Baseline, e.Config.Warmup)
		timeLoop(c.Candidate, e.Config.Warmup)
	}

	result, err := Compare(c.Baseline, c.Candidate, iterations)
	result.Name = c.Name
	if err != nil {
		return result, fmt.Errorf("%s: %w", c.Name, err)
	}

	if pct, err := result.Improvement(); err != nil {
		e.logger().Warn("improvement undefined", "comparison", c.Name, "iterations", iterations, "err", err)
	} else {
		e.logger().Debug("comparison finished",
			"comparison", c.Name,
			"baseline_ms", result.BaselineMS,
			"candidate_ms", result.CandidateMS,
			"improvement_pct", pct)
	}
	return result, nil
}

// RunAll runs every comparison in order. A comparison that fails its cross
// check is reported through onError and skipped; the rest still run.
func (e *Engine) RunAll(comparisons []Comparison, onResult func(ComparisonResult), onError func(string, error)) {
	for _, c := range comparisons {
		result, err := e.Run(c)
		if err != nil {
			if onError != nil {
				onError(c.Name, err)
			}
			continue
		}
		if onResult != nil {
			onResult(result)
		}
	}
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Engine) iterationsFor(c Comparison) int {
	switch {
	case e.Config.Override > 0:
		return e.Config.Override
	case c.Iterations > 0:
		return c.Iterations
	case e.Config.Iterations > 0:
		return e.Config.Iterations
	default:
		return DefaultConfig().Iterations
	}
}
