package foldbench

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
)

func TestAggregator_Summarize(t *testing.T) {
	agg := NewAggregator()
	for _, v := range []float64{100, 200, 300, 400, 500} {
		agg.Record("default", v)
	}

	stats, err := agg.Summarize("default")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if stats.Count != 5 || stats.MeanMS != 300 || stats.MinMS != 100 || stats.MaxMS != 500 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.P50MS != 300 {
		t.Errorf("P50: expected 300, got %v", stats.P50MS)
	}
	if stats.P95MS != 500 {
		t.Errorf("P95: expected 500, got %v", stats.P95MS)
	}

	t.Logf("Stats: mean=%.2f stddev=%.2f p50=%.2f p95=%.2f",
		stats.MeanMS, stats.StddevMS, stats.P50MS, stats.P95MS)
}

// TestAggregator_NoData verifies an empty label is never reported as zero.
func TestAggregator_NoData(t *testing.T) {
	agg := NewAggregator()
	agg.Record("default", 12)

	_, err := agg.Summarize("window_20")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}

	for _, s := range agg.Summaries() {
		if s.Label == "window_20" {
			t.Error("Summaries included a label without samples")
		}
	}
}

// TestAggregator_OrderIndependent records the same multiset in many
// permutations and expects bit-identical summaries.
func TestAggregator_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	values := make([]float64, 257)
	for i := range values {
		values[i] = rng.Float64() * 1000
	}

	reference := NewAggregator()
	for _, v := range values {
		reference.Record("cfg", v)
	}
	want, _ := reference.Summarize("cfg")

	for trial := 0; trial < 50; trial++ {
		perm := append([]float64(nil), values...)
		rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

		agg := NewAggregator()
		for _, v := range perm {
			agg.Record("cfg", v)
		}
		got, _ := agg.Summarize("cfg")
		if got != want {
			t.Fatalf("trial %d: permutation changed summary\n got: %+v\nwant: %+v", trial, got, want)
		}
	}
	t.Log("✓ Summary independent of arrival order")
}

func TestAggregator_MinMeanMax(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 11))
	for trial := 0; trial < 200; trial++ {
		agg := NewAggregator()
		n := rng.IntN(20) + 1
		for i := 0; i < n; i++ {
			agg.Record("x", rng.Float64()*rng.Float64()*1e4)
		}
		AssertStats(t, agg, "x", n)
	}

	// Identical values are where rounding could push the mean out of range.
	same := NewAggregator()
	for i := 0; i < 10; i++ {
		same.Record("x", 0.1)
	}
	AssertStats(t, same, "x", 10)
}

func TestAggregator_Merge(t *testing.T) {
	whole := NewAggregator()
	left, right := NewAggregator(), NewAggregator()

	for i, v := range []float64{5, 9, 2, 7, 3, 8} {
		label := "a"
		if i%3 == 0 {
			label = "b"
		}
		whole.Record(label, v)
		if i%2 == 0 {
			left.Record(label, v)
		} else {
			right.Record(label, v)
		}
	}

	merged := NewAggregator()
	merged.Merge(left)
	merged.Merge(right)

	for _, label := range []string{"a", "b"} {
		want, _ := whole.Summarize(label)
		got, _ := merged.Summarize(label)
		if got != want {
			t.Errorf("%s: per-worker merge differs\n got: %+v\nwant: %+v", label, got, want)
		}
	}
}

func TestAggregator_ConcurrentRecord(t *testing.T) {
	agg := NewAggregator()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				agg.Record("cfg", float64(i))
			}
		}()
	}
	wg.Wait()

	if got := agg.Count("cfg"); got != 800 {
		t.Errorf("expected 800 samples, got %d", got)
	}
}

func TestAggregator_Reset(t *testing.T) {
	agg := NewAggregator()
	agg.Record("cfg", 1)
	agg.Reset()

	if len(agg.Labels()) != 0 {
		t.Error("labels survived Reset")
	}
	if _, err := agg.Summarize("cfg"); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData after Reset, got %v", err)
	}
}
