package foldbench

import (
	"errors"
	"testing"
)

// AssertionConfig contains thresholds for comparison assertions.
type AssertionConfig struct {
	// Minimum improvement the candidate must show, in percent.
	// Negative values tolerate a bounded regression.
	MinImprovementPct float64
}

// DefaultAssertionConfig accepts any candidate that is not slower.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{MinImprovementPct: 0}
}

// AssertImprovement verifies the candidate beats the baseline by at least
// cfg.MinImprovementPct.
//
// A zero-duration baseline fails the test outright: an undefined improvement
// is not a pass.
func AssertImprovement(t testing.TB, res ComparisonResult, cfg AssertionConfig) {
	t.Helper()

	pct, err := res.Improvement()
	if err != nil {
		t.Fatalf("Improvement undefined for %s: %v", res.Name, err)
	}

	if pct < cfg.MinImprovementPct {
		t.Errorf("%s: improvement %.1f%% below threshold %.1f%%\n"+
			"baseline=%.3f ms candidate=%.3f ms over %d iterations",
			res.Name, pct, cfg.MinImprovementPct, res.BaselineMS, res.CandidateMS, res.Iterations)
		return
	}

	t.Logf("✓ %s: %.1f%% (threshold: %.1f%%)", res.Name, pct, cfg.MinImprovementPct)
}

// AssertStats verifies label has exactly want samples and that its summary
// respects min ≤ mean ≤ max.
func AssertStats(t testing.TB, agg *Aggregator, label string, want int) {
	t.Helper()

	stats, err := agg.Summarize(label)
	if want == 0 {
		if !errors.Is(err, ErrNoData) {
			t.Errorf("%s: expected no data, got %+v (err=%v)", label, stats, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("%s: Summarize failed: %v", label, err)
	}

	if stats.Count != want {
		t.Errorf("%s: expected %d samples, got %d", label, want, stats.Count)
	}
	if stats.MinMS > stats.MeanMS || stats.MeanMS > stats.MaxMS {
		t.Errorf("%s: min ≤ mean ≤ max violated: %.4f / %.4f / %.4f",
			label, stats.MinMS, stats.MeanMS, stats.MaxMS)
	}

	t.Logf("✓ %s: n=%d mean=%.2f min=%.2f max=%.2f",
		label, stats.Count, stats.MeanMS, stats.MinMS, stats.MaxMS)
}
