package foldbench

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteChart renders a bar chart of per-configuration min, mean and max
// latency as a standalone HTML page.
func WriteChart(w io.Writer, stats []ConfigurationStats, subtitle string) error {
	if len(stats) == 0 {
		return fmt.Errorf("chart: %w", ErrNoData)
	}

	labels := make([]string, 0, len(stats))
	minData := make([]opts.BarData, 0, len(stats))
	meanData := make([]opts.BarData, 0, len(stats))
	maxData := make([]opts.BarData, 0, len(stats))
	for _, s := range stats {
		labels = append(labels, s.Label)
		minData = append(minData, opts.BarData{Value: round2(s.MinMS)})
		meanData = append(meanData, opts.BarData{Value: round2(s.MeanMS)})
		maxData = append(maxData, opts.BarData{Value: round2(s.MaxMS)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Latency per configuration",
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ms"}),
	)
	bar.SetXAxis(labels).
		AddSeries("min", minData).
		AddSeries("mean", meanData).
		AddSeries("max", maxData)

	return bar.Render(w)
}

// WriteChartFile writes WriteChart output to path.
// No file is created when there is nothing to chart.
func WriteChartFile(path string, stats []ConfigurationStats, subtitle string) (err error) {
	if len(stats) == 0 {
		return fmt.Errorf("chart: %w", ErrNoData)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return WriteChart(f, stats, subtitle)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
