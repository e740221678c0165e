package storecast

import (
	"io"
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/storecast/storecast/crossval"
	"github.com/storecast/storecast/series"
)

// LineForecast generates an echart line chart plotting the historical
// actuals along with the forecast point estimate and uncertainty bounds
// over the forecast timeline.
func LineForecast(s *series.Series, fc *Forecast) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Demand Forecast",
			},
		),
	)

	actualByDay := make(map[time.Time]float64, s.Len())
	for i := 0; i < s.Len(); i++ {
		actualByDay[s.T[i]] = s.Y[i]
	}

	lineDataActual := make([]opts.LineData, 0, len(fc.T))
	lineDataPoint := make([]opts.LineData, 0, len(fc.T))
	lineDataUpper := make([]opts.LineData, 0, len(fc.T))
	lineDataLower := make([]opts.LineData, 0, len(fc.T))

	for i := 0; i < len(fc.T); i++ {
		if actual, exists := actualByDay[fc.T[i]]; exists {
			lineDataActual = append(lineDataActual, opts.LineData{Value: actual})
		} else {
			lineDataActual = append(lineDataActual, opts.LineData{Value: "-"})
		}
		lineDataPoint = append(lineDataPoint, opts.LineData{Value: fc.Point[i]})
		lineDataUpper = append(lineDataUpper, opts.LineData{Value: fc.Upper[i]})
		lineDataLower = append(lineDataLower, opts.LineData{Value: fc.Lower[i]})
	}

	line.SetXAxis(fc.T).
		AddSeries("Actual", lineDataActual).
		AddSeries("Forecast", lineDataPoint).
		AddSeries("Upper", lineDataUpper).
		AddSeries("Lower", lineDataLower)
	return line
}

// LinePerformance generates an echart line chart of error aggregates by
// forecast horizon.
func LinePerformance(perf []crossval.Performance) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Backtest Error by Horizon",
			},
		),
	)

	horizons := make([]int, 0, len(perf))
	metrics := map[string][]opts.LineData{
		"RMSE":  make([]opts.LineData, 0, len(perf)),
		"MAE":   make([]opts.LineData, 0, len(perf)),
		"MAPE":  make([]opts.LineData, 0, len(perf)),
		"SMAPE": make([]opts.LineData, 0, len(perf)),
	}
	for _, p := range perf {
		horizons = append(horizons, p.HorizonDays)
		appendMetric(metrics, "RMSE", p.RMSE)
		appendMetric(metrics, "MAE", p.MAE)
		appendMetric(metrics, "MAPE", p.MAPE)
		appendMetric(metrics, "SMAPE", p.SMAPE)
	}

	line = line.SetXAxis(horizons)
	for _, name := range []string{"RMSE", "MAE", "MAPE", "SMAPE"} {
		line = line.AddSeries(name, metrics[name])
	}
	return line
}

func appendMetric(metrics map[string][]opts.LineData, name string, val float64) {
	if math.IsNaN(val) {
		metrics[name] = append(metrics[name], opts.LineData{Value: "-"})
		return
	}
	metrics[name] = append(metrics[name], opts.LineData{Value: val})
}

// WritePlots renders the forecast and backtest charts as a single HTML page.
func WritePlots(w io.Writer, s *series.Series, res *RunResult) error {
	page := components.NewPage()
	page.AddCharts(
		LineForecast(s, res.Forecast),
		LinePerformance(res.Backtest.Performance),
	)
	return page.Render(w)
}
