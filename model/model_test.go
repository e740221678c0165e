package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyT(n int) []time.Time {
	start := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.AddDate(0, 0, i))
	}
	return t
}

func TestNewGoForecaster(t *testing.T) {
	testData := map[string]struct {
		cfg Config
		err error
	}{
		"default config": {
			cfg: NewDefaultConfig(),
		},
		"logistic growth unsupported": {
			cfg: Config{Growth: GrowthLogistic},
			err: ErrUnsupportedGrowth,
		},
		"unknown holiday": {
			cfg: Config{Growth: GrowthLinear, Holidays: []string{"festivus"}},
			err: ErrUnknownHoliday,
		},
		"known holidays": {
			cfg: Config{Growth: GrowthLinear, Holidays: []string{"christmas", "thanksgiving"}},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := NewGoForecaster(td.cfg)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegularizationSweep(t *testing.T) {
	g := &GoForecaster{cfg: Config{
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10.0,
	}}
	sweep := g.regularizationSweep()
	require.Len(t, sweep, 3)
	assert.InDelta(t, 0.0, sweep[0], 1e-12)
	assert.InDelta(t, 0.1, sweep[1], 1e-12)
	assert.InDelta(t, 20.0, sweep[2], 1e-12)

	// equal priors collapse to one lambda
	g = &GoForecaster{cfg: Config{
		ChangepointPriorScale: 0.5,
		SeasonalityPriorScale: 0.5,
	}}
	assert.Len(t, g.regularizationSweep(), 2)
}

func TestEngineOptions(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SeasonalityMode = SeasonalityMultiplicative
	cfg.DailySeasonality = true
	cfg.Holidays = []string{"christmas"}
	g := &GoForecaster{cfg: cfg}

	// two years of history covers two christmases
	opt, err := g.engineOptions(dailyT(731))
	require.NoError(t, err)

	require.NotNil(t, opt.SeriesOptions)
	require.NotNil(t, opt.SeriesOptions.ForecastOptions)
	fopt := opt.SeriesOptions.ForecastOptions
	assert.True(t, fopt.UseLog)
	assert.True(t, fopt.ChangepointOptions.Auto)
	assert.Len(t, fopt.SeasonalityOptions.SeasonalityConfigs, 3)
	assert.GreaterOrEqual(t, len(fopt.EventOptions.Events), 2)
	assert.Equal(t, "linear", fopt.GrowthType)
}

func TestGoForecasterFitPredict(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.YearlySeasonality = false

	n := 120
	tIdx := dailyT(n)
	y := make([]float64, n)
	for i := range y {
		y[i] = 50 + 10*math.Sin(2*math.Pi*float64(i)/7.0)
	}

	p, err := NewGoForecaster(cfg)
	require.NoError(t, err)
	require.NoError(t, p.Fit(tIdx, y))

	future := dailyT(n + 30)
	pred, err := p.Predict(future)
	require.NoError(t, err)
	assert.Len(t, pred.Point, n+30)
	assert.Len(t, pred.Lower, n+30)
	assert.Len(t, pred.Upper, n+30)
	for i := range pred.Point {
		assert.GreaterOrEqual(t, pred.Upper[i], pred.Lower[i])
	}
}

func TestPredictBeforeFit(t *testing.T) {
	p, err := NewGoForecaster(NewDefaultConfig())
	require.NoError(t, err)
	_, err = p.Predict(dailyT(3))
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestNaive(t *testing.T) {
	p, err := NewNaive(Config{})
	require.NoError(t, err)

	tIdx := dailyT(10)
	y := []float64{1, 2, 4, 7, 11, 16, 22, 29, 37, 46}
	require.NoError(t, p.Fit(tIdx, y))

	pred, err := p.Predict(dailyT(12))
	require.NoError(t, err)
	for i := range pred.Point {
		assert.InDelta(t, 46.0, pred.Point[i], 1e-12)
		assert.Less(t, pred.Lower[i], pred.Point[i])
		assert.Greater(t, pred.Upper[i], pred.Point[i])
	}
}

func TestHolidayNames(t *testing.T) {
	names := HolidayNames()
	assert.Contains(t, names, "christmas")
	assert.Contains(t, names, "thanksgiving")
	assert.IsIncreasing(t, names)
}
