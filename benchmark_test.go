package foldbench

import (
	"errors"
	"testing"
)

// TestImprovementPct_Sign verifies exact values and that regressions stay
// negative.
func TestImprovementPct_Sign(t *testing.T) {
	cases := []struct {
		baseline, candidate, want float64
	}{
		{100, 75, 25.0},
		{100, 120, -20.0},
		{100, 100, 0},
		{80, 20, 75},
	}

	for _, c := range cases {
		got, err := ImprovementPct(c.baseline, c.candidate)
		if err != nil {
			t.Fatalf("ImprovementPct(%v, %v): %v", c.baseline, c.candidate, err)
		}
		if got != c.want {
			t.Errorf("ImprovementPct(%v, %v): expected exactly %v, got %v",
				c.baseline, c.candidate, c.want, got)
		}
	}
}

// TestImprovementPct_ZeroBaseline verifies an unresolvable baseline is not
// reported as 0%.
func TestImprovementPct_ZeroBaseline(t *testing.T) {
	if _, err := ImprovementPct(0, 0); !errors.Is(err, ErrBaselineTooCoarse) {
		t.Errorf("expected ErrBaselineTooCoarse, got %v", err)
	}

	res := ComparisonResult{Name: "min-max", Iterations: 10, BaselineMS: 0, CandidateMS: 0}
	if _, err := res.Improvement(); !errors.Is(err, ErrBaselineTooCoarse) {
		t.Errorf("expected ErrBaselineTooCoarse from result, got %v", err)
	}
	if _, ok := res.BaselineOpsPerMS(); ok {
		t.Error("rate must be undefined for a zero-duration side")
	}
}

func TestCompare_TimesBothSides(t *testing.T) {
	var baselineCalls, candidateCalls int
	baseline := func() int { baselineCalls++; return baselineCalls }
	candidate := func() int { candidateCalls++; return candidateCalls }

	res, err := Compare(baseline, candidate, 1000)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if baselineCalls != 1000 || candidateCalls != 1000 {
		t.Errorf("expected 1000 calls per side, got %d / %d", baselineCalls, candidateCalls)
	}
	if res.Iterations != 1000 || res.BaselineMS < 0 || res.CandidateMS < 0 {
		t.Errorf("unexpected result: %+v", res)
	}

	// The last accumulator (candidate: 1+2+...+1000) must be observable.
	if got := sink.Load(); got != 500500 {
		t.Errorf("sink: expected 500500, got %d", got)
	}
}

func TestCompare_SequentialNotInterleaved(t *testing.T) {
	var trace []byte
	_, err := Compare(
		func() int { trace = append(trace, 'b'); return 0 },
		func() int { trace = append(trace, 'c'); return 0 },
		3,
	)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if string(trace) != "bbbccc" {
		t.Errorf("expected baseline block then candidate block, got %q", trace)
	}
}

func TestCompare_InvalidIterations(t *testing.T) {
	op := func() int { return 1 }
	for _, n := range []int{0, -5} {
		if _, err := Compare(op, op, n); !errors.Is(err, ErrInvalidIterations) {
			t.Errorf("Compare(n=%d): expected ErrInvalidIterations, got %v", n, err)
		}
	}
}

func TestEngine_Mismatch(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	_, err := e.Run(Comparison{
		Name:      "broken",
		Baseline:  func() int { return 1 },
		Candidate: func() int { return 2 },
	})
	if !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestEngine_IterationPrecedence(t *testing.T) {
	c := Comparison{Iterations: 500}

	e := &Engine{Config: Config{Iterations: 100}}
	if got := e.iterationsFor(c); got != 500 {
		t.Errorf("comparison iterations should win over default: got %d", got)
	}
	if got := e.iterationsFor(Comparison{}); got != 100 {
		t.Errorf("engine default: got %d", got)
	}

	e.Config.Override = 7
	if got := e.iterationsFor(c); got != 7 {
		t.Errorf("override should win: got %d", got)
	}
}

func TestEngine_RunAllContinuesPastMismatch(t *testing.T) {
	e := NewEngine(Config{Iterations: 10, Warmup: 2}, nil)
	ok := Comparison{Name: "ok", Baseline: func() int { return 3 }, Candidate: func() int { return 3 }}
	bad := Comparison{Name: "bad", Baseline: func() int { return 1 }, Candidate: func() int { return 0 }}

	var results []string
	var failures []string
	e.RunAll([]Comparison{bad, ok},
		func(r ComparisonResult) { results = append(results, r.Name) },
		func(name string, err error) { failures = append(failures, name) })

	if len(results) != 1 || results[0] != "ok" {
		t.Errorf("expected ok to run, got %v", results)
	}
	if len(failures) != 1 || failures[0] != "bad" {
		t.Errorf("expected bad to be reported, got %v", failures)
	}
}

func TestBuiltinComparisons_Equivalent(t *testing.T) {
	e := NewEngine(Config{Override: 50}, nil)

	for _, c := range BuiltinComparisons(DefaultSeed) {
		res, err := e.Run(c)
		if err != nil {
			t.Errorf("%s: %v", c.Name, err)
			continue
		}
		t.Logf("%s: baseline=%.3fms candidate=%.3fms", res.Name, res.BaselineMS, res.CandidateMS)
	}
}
