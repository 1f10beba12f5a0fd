package foldbench

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Report writes the human-readable benchmark report.
//
// Styling goes through a renderer bound to the destination writer, so output
// to a file or pipe is plain text and output to a terminal is coloured.
type Report struct {
	w         io.Writer
	title     lipgloss.Style
	ok        lipgloss.Style
	bad       lipgloss.Style
	muted     lipgloss.Style
	lastInput string
}

// NewReport creates a report writing to w.
func NewReport(w io.Writer) *Report {
	r := lipgloss.NewRenderer(w)
	return &Report{
		w:     w,
		title: r.NewStyle().Bold(true),
		ok:    r.NewStyle().Foreground(lipgloss.Color("#2CD7C7")),
		bad:   r.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true),
		muted: r.NewStyle().Foreground(lipgloss.Color("#7F8C8D")),
	}
}

const (
	reportWidth  = 80
	summaryWidth = 60
	rowFormat    = "%15s%12s%12s%15s%12s\n"
)

func (r *Report) rule(ch string, n int) {
	fmt.Fprintln(r.w, strings.Repeat(ch, n))
}

// Header writes the matrix table header. runID identifies the run in logs
// and exported metrics.
func (r *Report) Header(runID string) {
	r.lastInput = ""
	fmt.Fprintln(r.w)
	r.rule("=", reportWidth)
	fmt.Fprintln(r.w, r.title.Render("Performance Benchmark Suite"))
	if runID != "" {
		fmt.Fprintln(r.w, r.muted.Render("run "+runID))
	}
	r.rule("=", reportWidth)
	fmt.Fprintf(r.w, rowFormat, "Test File", "Config", "Time (ms)", "Throughput", "Status")
	r.rule("-", reportWidth)
}

// Cell writes one matrix row. A separator is written whenever the input
// changes, which groups rows by input file.
//
// Failed and timed-out rows show their wall-clock time in parentheses: it
// is what the run cost, not a measurement, and it is never aggregated.
func (r *Report) Cell(c Cell) {
	label := c.Input.Case.Label
	if r.lastInput != "" && label != r.lastInput {
		r.rule("-", reportWidth)
	}
	r.lastInput = label

	elapsed := fmt.Sprintf("%.2f", c.Sample.ElapsedMS)
	throughput := "N/A"
	status := c.Sample.Outcome.String()

	if c.Sample.OK() {
		if c.HasThroughput {
			throughput = fmt.Sprintf("%d aa/s", int(c.Throughput))
		}
		status = r.ok.Render(fmt.Sprintf("%12s", status))
	} else {
		elapsed = "(" + elapsed + ")"
		status = r.bad.Render(fmt.Sprintf("%12s", status))
	}

	fmt.Fprintf(r.w, "%15s%12s%12s%15s%s\n", label, c.Config.Label, elapsed, throughput, status)
}

// Summary writes per-configuration statistics in the order of configs.
// Configurations without a successful sample are listed as having no data.
func (r *Report) Summary(agg *Aggregator, configs []ConfigurationSpec) {
	if r.lastInput != "" {
		r.rule("-", reportWidth)
	}

	fmt.Fprintln(r.w)
	r.rule("=", summaryWidth)
	fmt.Fprintln(r.w, r.title.Render("Performance Analysis Summary"))
	r.rule("=", summaryWidth)

	for _, cfg := range configs {
		fmt.Fprintf(r.w, "Configuration: %s\n", cfg.Label)

		stats, err := agg.Summarize(cfg.Label)
		if errors.Is(err, ErrNoData) {
			fmt.Fprintln(r.w, r.bad.Render("  no data (no successful runs)"))
			fmt.Fprintln(r.w)
			continue
		}

		fmt.Fprintf(r.w, "  Average time: %.2f ms\n", stats.MeanMS)
		fmt.Fprintf(r.w, "  Min time:     %.2f ms\n", stats.MinMS)
		fmt.Fprintf(r.w, "  Max time:     %.2f ms\n", stats.MaxMS)
		fmt.Fprintf(r.w, "  Stddev:       %.2f ms\n", stats.StddevMS)
		fmt.Fprintf(r.w, "  P50 / P95:    %.2f / %.2f ms\n", stats.P50MS, stats.P95MS)
		fmt.Fprintf(r.w, "  Tests run:    %d\n", stats.Count)
		fmt.Fprintln(r.w)
	}
}

// Comparison writes one micro-benchmark comparison.
func (r *Report) Comparison(res ComparisonResult) {
	fmt.Fprintln(r.w)
	r.rule("=", summaryWidth)
	fmt.Fprintln(r.w, r.title.Render(res.Name))
	r.rule("=", summaryWidth)

	r.side("baseline", res.BaselineMS, res.Iterations)
	r.side("candidate", res.CandidateMS, res.Iterations)
	r.rule("-", summaryWidth)

	pct, err := res.Improvement()
	switch {
	case err != nil:
		fmt.Fprintln(r.w, r.bad.Render(fmt.Sprintf(
			"Improvement: undefined (baseline measured 0 ms at %d iterations, raise --iterations)",
			res.Iterations)))
	case pct < 0:
		fmt.Fprintln(r.w, r.bad.Render(fmt.Sprintf("Improvement: %.1f%% (regression)", pct)))
	default:
		fmt.Fprintln(r.w, r.ok.Render(fmt.Sprintf("Improvement: %.1f%%", pct)))
	}
}

func (r *Report) side(name string, ms float64, iterations int) {
	rate := "n/a"
	if v, ok := opsPerMS(iterations, ms); ok {
		rate = fmt.Sprintf("%.1f ops/ms", v)
	}
	fmt.Fprintf(r.w, "%12s: %10.3f ms (%s)\n", name, ms, rate)
}

// ComparisonError writes a comparison that could not be timed.
func (r *Report) ComparisonError(name string, err error) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.bad.Render(fmt.Sprintf("%s: SKIPPED: %v", name, err)))
}
