package report

import (
	"fmt"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/stops"
)

// Duration banding boundaries in minutes: below the first bound a stop is a
// short stay, between them a medium stay, above the second a long stay.
const (
	shortStayMaxMinutes  = 30
	mediumStayMaxMinutes = 120
)

const (
	shortStayColor  = "#2e7d32" // green
	mediumStayColor = "#ef6c00" // orange
	longStayColor   = "#c62828" // red
)

// defaultMapCenter is used when there are no stops to plot (San Francisco).
var defaultMapCenter = [2]float64{37.7749, -122.4194}

// MapHTML renders the interactive stop map: one marker per stop colored by
// duration band, plus a duration-weighted heat layer.
func (w *Writer) MapHTML(detected []stops.Stop) (string, error) {
	path := filepath.Join(w.OutDir, MapFile)
	w.Audit.Recordf("generating %s", MapFile)

	f, err := w.FS.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	page := BuildStopMapPage(detected)
	if err := page.Render(f); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	w.Audit.Recordf("generated %s with %d markers and heat layer", MapFile, len(detected))
	return path, nil
}

// BuildStopMapPage assembles the stop map as a two-chart page: color-banded
// markers and a duration-weighted heat scatter. Longitude is plotted on X
// and latitude on Y.
func BuildStopMapPage(detected []stops.Stop) *components.Page {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(buildMarkerChart(detected), buildHeatChart(detected))
	return page
}

func buildMarkerChart(detected []stops.Stop) *charts.Scatter {
	var short, medium, long []opts.ScatterData
	for i, s := range detected {
		point := opts.ScatterData{
			Name: fmt.Sprintf("Stop #%d: %s, %d min, %d points",
				i+1, s.Arrival.Format("2006-01-02 15:04"), s.DurationMinutes, s.PointCount),
			Value: []interface{}{s.Longitude, s.Latitude},
		}
		switch {
		case s.DurationMinutes < shortStayMaxMinutes:
			short = append(short, point)
		case s.DurationMinutes <= mediumStayMaxMinutes:
			medium = append(medium, point)
		default:
			long = append(long, point)
		}
	}

	minLon, maxLon, minLat, maxLat := bounds(detected)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Location Timeline", Width: "900px", Height: "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Detected Stops",
			Subtitle: fmt.Sprintf("%d stops, colored by dwell duration", len(detected)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: minLon, Max: maxLon, Name: "Longitude", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: minLat, Max: maxLat, Name: "Latitude", NameLocation: "middle", NameGap: 30}),
	)

	scatter.AddSeries("short stay (<30 min)", short,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: shortStayColor}))
	scatter.AddSeries("medium stay (30-120 min)", medium,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: mediumStayColor}))
	scatter.AddSeries("long stay (>120 min)", long,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: longStayColor}))

	return scatter
}

// buildHeatChart renders the duration-weighted heat layer as a colored
// scatter, with the visual map keyed on dwell minutes.
func buildHeatChart(detected []stops.Stop) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(detected))
	maxMinutes := 1.0
	for _, s := range detected {
		if float64(s.DurationMinutes) > maxMinutes {
			maxMinutes = float64(s.DurationMinutes)
		}
		data = append(data, opts.ScatterData{
			Value: []interface{}{s.Longitude, s.Latitude, s.DurationMinutes},
		})
	}

	minLon, maxLon, minLat, maxLat := bounds(detected)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Dwell Heat",
			Subtitle: "weighted by dwell duration (minutes)",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: minLon, Max: maxLon, Name: "Longitude", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: minLat, Max: maxLat, Name: "Latitude", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxMinutes),
			Dimension:  "2",
			InRange: &opts.VisualMapInRange{
				Color: []string{"#440154", "#31688e", "#35b779", "#fde725"},
			},
		}),
	)

	scatter.AddSeries("dwell heat", data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 25}))
	return scatter
}

// bounds returns padded axis ranges covering all stops, or a small window
// around the default center when there are none.
func bounds(detected []stops.Stop) (minLon, maxLon, minLat, maxLat float64) {
	if len(detected) == 0 {
		return defaultMapCenter[1] - 0.05, defaultMapCenter[1] + 0.05,
			defaultMapCenter[0] - 0.05, defaultMapCenter[0] + 0.05
	}

	minLon, maxLon = detected[0].Longitude, detected[0].Longitude
	minLat, maxLat = detected[0].Latitude, detected[0].Latitude
	for _, s := range detected[1:] {
		if s.Longitude < minLon {
			minLon = s.Longitude
		}
		if s.Longitude > maxLon {
			maxLon = s.Longitude
		}
		if s.Latitude < minLat {
			minLat = s.Latitude
		}
		if s.Latitude > maxLat {
			maxLat = s.Latitude
		}
	}

	lonPad := (maxLon - minLon) * 0.05
	latPad := (maxLat - minLat) * 0.05
	if lonPad == 0 {
		lonPad = 0.01
	}
	if latPad == 0 {
		latPad = 0.01
	}
	return minLon - lonPad, maxLon + lonPad, minLat - latPad, maxLat + latPad
}
