// Package foldbench benchmarks a command-line folding tool and proves
// micro-optimizations with in-process A/B comparisons.
//
// # Overview
//
// foldbench has two measurement paths:
//
//   - Matrix runs drive the external executable across synthetic inputs ×
//     flag configurations, time every invocation, and summarize latency
//     per configuration.
//   - Comparisons time a baseline and a candidate implementation of the same
//     small operation in-process, without process-launch noise, and report
//     the signed improvement.
//
// # Components
//
//   - clock.go       - Monotonic timing and scoped timed regions
//   - corpus.go      - Deterministic synthetic FASTA inputs
//   - process.go     - Timed subprocess execution and outcome classification
//   - matrix.go      - The inputs × configurations sweep
//   - aggregator.go  - Per-configuration statistics
//   - benchmark.go   - The baseline-vs-candidate engine
//   - harness.go     - One complete suite run
//
// # Quick Start
//
//	suite := foldbench.DefaultSuite()
//	suite.Executable = "./src/CDSfold"
//
//	res, err := foldbench.RunSuite(ctx, suite, foldbench.RunOptions{
//	    Report: foldbench.NewReport(os.Stdout),
//	})
//	if err != nil {
//	    log.Fatal(err) // executable missing or suite invalid
//	}
//
//	stats, err := res.Aggregator.Summarize("window_20")
//	if errors.Is(err, foldbench.ErrNoData) {
//	    // every window_20 cell failed
//	}
//
// Comparing two implementations:
//
//	res, err := foldbench.Compare(oldFn, newFn, 1_000_000)
//	pct, err := res.Improvement()
//	if errors.Is(err, foldbench.ErrBaselineTooCoarse) {
//	    // raise the iteration count
//	}
//
// # Measurement Rules
//
// Failures are data, not errors. A cell whose process exits non-zero (or
// times out) is reported with its status and excluded from statistics and
// throughput; the sweep continues. Only a missing executable stops a run,
// and it does so before the first cell.
//
// Nothing is fabricated. Statistics over zero samples return ErrNoData, and
// an improvement against a zero-duration baseline returns
// ErrBaselineTooCoarse; neither is ever presented as 0.
//
// CRITICAL: run matrices sequentially (Workers ≤ 1) when comparing
// latencies. Concurrent children share cores and caches, and the numbers
// stop being comparable. Parallel workers are for cutting harness time on
// smoke runs.
package foldbench
