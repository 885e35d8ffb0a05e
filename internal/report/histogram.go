package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/stops"
)

// DurationHistogramPNG renders per-stop dwell minutes as a bar chart image.
func (w *Writer) DurationHistogramPNG(detected []stops.Stop) (string, error) {
	path := filepath.Join(w.OutDir, DurationsFile)
	w.Audit.Recordf("generating %s", DurationsFile)

	p := plot.New()
	p.Title.Text = "Dwell Duration per Stop"
	p.Y.Label.Text = "minutes"

	// plotter.NewBarChart rejects empty data, but the artifact is still
	// generated when no stops were found; an empty titled plot stands in.
	if len(detected) > 0 {
		values := make(plotter.Values, len(detected))
		labels := make([]string, len(detected))
		for i, s := range detected {
			values[i] = float64(s.DurationMinutes)
			labels[i] = fmt.Sprintf("#%d", i+1)
		}

		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return "", fmt.Errorf("failed to build duration chart: %w", err)
		}
		bars.LineStyle.Width = 0
		bars.Color = color.RGBA{R: 0x26, G: 0x82, B: 0x8e, A: 0xff}
		p.Add(bars)
		p.NominalX(labels...)
	}

	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return "", fmt.Errorf("failed to render duration chart: %w", err)
	}

	f, err := w.FS.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := wt.WriteTo(f); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	w.Audit.Recordf("generated %s for %d stops", DurationsFile, len(detected))
	return path, nil
}

// BuildDurationBar assembles the same per-stop dwell chart as an ECharts bar
// for the HTTP viewer.
func BuildDurationBar(detected []stops.Stop) *charts.Bar {
	x := make([]string, len(detected))
	y := make([]opts.BarData, len(detected))
	for i, s := range detected {
		x[i] = fmt.Sprintf("#%d %s", i+1, s.Arrival.Format("01-02 15:04"))
		y[i] = opts.BarData{Value: s.DurationMinutes}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Dwell Duration per Stop",
			Subtitle: fmt.Sprintf("%d stops", len(detected)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("minutes", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}
