package foldbench

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// ErrNoData is returned when statistics are requested for a configuration
// with no successful samples. A zero-valued ConfigurationStats is never a
// measurement.
var ErrNoData = errors.New("no samples recorded")

// ConfigurationStats summarizes the successful samples of one configuration.
//
// Invariant: MinMS ≤ MeanMS ≤ MaxMS, and Count > 0.
type ConfigurationStats struct {
	Label    string
	Count    int
	MeanMS   float64
	MinMS    float64
	MaxMS    float64
	StddevMS float64 // Population standard deviation
	P50MS    float64
	P95MS    float64
}

// Aggregator accumulates per-configuration samples for one benchmark run.
//
// Create one per run; nothing is shared between instances. It is safe for
// concurrent use so parallel matrix workers can record into it directly.
type Aggregator struct {
	mu      sync.Mutex
	samples map[string][]float64
	order   []string // Labels in first-record order
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{samples: make(map[string][]float64)}
}

// Record appends one successful elapsed time to label's samples.
func (a *Aggregator) Record(label string, elapsedMS float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.samples[label]; !ok {
		a.order = append(a.order, label)
	}
	a.samples[label] = append(a.samples[label], elapsedMS)
}

// Count returns the number of samples recorded for label.
func (a *Aggregator) Count(label string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.samples[label])
}

// Labels returns the recorded configuration labels in first-record order.
func (a *Aggregator) Labels() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.order...)
}

// Summarize computes statistics over exactly the samples recorded for label.
// It returns ErrNoData when there are none.
//
// Reductions run over a sorted copy, so the result is bit-identical for any
// arrival order of the same samples (floating-point addition is not
// associative, summing in arrival order would not be).
func (a *Aggregator) Summarize(label string) (ConfigurationStats, error) {
	a.mu.Lock()
	sorted := append([]float64(nil), a.samples[label]...)
	a.mu.Unlock()

	if len(sorted) == 0 {
		return ConfigurationStats{}, fmt.Errorf("%s: %w", label, ErrNoData)
	}
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	n := float64(len(sorted))
	mean := sum / n

	// Rounding can push the mean of identical values a hair outside the range.
	mean = math.Min(math.Max(mean, sorted[0]), sorted[len(sorted)-1])

	var variance float64
	for _, v := range sorted {
		diff := v - mean
		variance += diff * diff
	}

	return ConfigurationStats{
		Label:    label,
		Count:    len(sorted),
		MeanMS:   mean,
		MinMS:    sorted[0],
		MaxMS:    sorted[len(sorted)-1],
		StddevMS: math.Sqrt(variance / n),
		P50MS:    sorted[len(sorted)*50/100],
		P95MS:    sorted[len(sorted)*95/100],
	}, nil
}

// Summaries returns statistics for every label with data, in first-record
// order.
func (a *Aggregator) Summaries() []ConfigurationStats {
	labels := a.Labels()
	out := make([]ConfigurationStats, 0, len(labels))
	for _, label := range labels {
		stats, err := a.Summarize(label)
		if err != nil {
			continue
		}
		out = append(out, stats)
	}
	return out
}

// Merge folds other's samples into a. Labels new to a are appended in
// other's order.
func (a *Aggregator) Merge(other *Aggregator) {
	if other == nil || other == a {
		return
	}

	other.mu.Lock()
	order := append([]string(nil), other.order...)
	copied := make(map[string][]float64, len(other.samples))
	for k, v := range other.samples {
		copied[k] = append([]float64(nil), v...)
	}
	other.mu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, label := range order {
		if _, ok := a.samples[label]; !ok {
			a.order = append(a.order, label)
		}
		a.samples[label] = append(a.samples[label], copied[label]...)
	}
}

// Reset discards all samples.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.samples = make(map[string][]float64)
	a.order = nil
}
