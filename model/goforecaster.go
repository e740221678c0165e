package model

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/aouyang1/go-forecaster"
	"github.com/aouyang1/go-forecaster/feature"
	"github.com/aouyang1/go-forecaster/forecast/options"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var (
	ErrUnsupportedGrowth = errors.New("engine does not support logistic growth")
	ErrUnknownHoliday    = errors.New("unknown holiday name")
	ErrModelFit          = errors.New("engine rejected configuration or data")
	ErrNotFitted         = errors.New("predict called before fit")
)

// Fourier orders per seasonal component, matching the published additive
// method's defaults for daily data.
const (
	yearlyOrders = 10
	weeklyOrders = 3
	dailyOrders  = 4

	autoChangepoints = 25

	holidayWindow = 24 * time.Hour

	residualWindowDays = 30
	residualZscore     = 1.28 // ~80% interval
)

var holidays = map[string]*cal.Holiday{
	"new_years":        us.NewYear,
	"memorial_day":     us.MemorialDay,
	"independence_day": us.IndependenceDay,
	"labor_day":        us.LaborDay,
	"thanksgiving":     us.ThanksgivingDay,
	"christmas":        us.ChristmasDay,
}

// HolidayNames lists the holiday identifiers accepted by Config.Holidays.
func HolidayNames() []string {
	names := make([]string, 0, len(holidays))
	for name := range holidays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GoForecaster adapts the go-forecaster engine to the Predictor capability.
// Its only logic is translating Config into the engine's option surface.
type GoForecaster struct {
	cfg Config
	f   *forecaster.Forecaster
}

// NewGoForecaster validates the configuration against the engine's
// capabilities and returns an unfitted predictor.
func NewGoForecaster(cfg Config) (Predictor, error) {
	if cfg.Growth == GrowthLogistic {
		return nil, ErrUnsupportedGrowth
	}
	for _, name := range cfg.Holidays {
		if _, exists := holidays[name]; !exists {
			return nil, fmt.Errorf("%q, %w", name, ErrUnknownHoliday)
		}
	}
	return &GoForecaster{cfg: cfg}, nil
}

// Fit translates the configuration for the training window and delegates
// fitting to the engine.
func (g *GoForecaster) Fit(t []time.Time, y []float64) error {
	if len(t) > 0 && g.cfg.YearlySeasonality {
		span := t[len(t)-1].Sub(t[0])
		if span < 2*365*24*time.Hour {
			slog.Warn("yearly seasonality requested with under two seasonal cycles of history",
				"span_days", int(span/(24*time.Hour)))
		}
	}

	opt, err := g.engineOptions(t)
	if err != nil {
		return err
	}
	f, err := forecaster.New(opt)
	if err != nil {
		return fmt.Errorf("unable to initialize engine, %w", err)
	}
	if err := f.Fit(t, y); err != nil {
		return fmt.Errorf("%v, %w", err, ErrModelFit)
	}
	g.f = f
	return nil
}

// Predict generates point estimates with uncertainty bounds at the given
// timestamps.
func (g *GoForecaster) Predict(t []time.Time) (*Prediction, error) {
	if g.f == nil {
		return nil, ErrNotFitted
	}
	res, err := g.f.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict, %w", err)
	}
	return &Prediction{
		T:     res.T,
		Point: res.Forecast,
		Lower: res.Lower,
		Upper: res.Upper,
	}, nil
}

func (g *GoForecaster) engineOptions(t []time.Time) (*forecaster.Options, error) {
	events, err := g.holidayEvents(t)
	if err != nil {
		return nil, err
	}

	seriesOpt := &options.Options{
		UseLog:         g.cfg.SeasonalityMode == SeasonalityMultiplicative,
		Regularization: g.regularizationSweep(),
		SeasonalityOptions: options.SeasonalityOptions{
			SeasonalityConfigs: g.seasonalityConfigs(),
		},
		ChangepointOptions: options.ChangepointOptions{
			Auto:                true,
			AutoNumChangepoints: autoChangepoints,
			EnableGrowth:        true,
		},
		EventOptions: options.EventOptions{Events: events},
	}
	if g.cfg.Growth == GrowthLinear {
		seriesOpt.GrowthType = feature.GrowthLinear
	}

	// uncertainty fit stays simple: no changepoints, same seasonal shape
	uncertaintyOpt := &options.Options{
		UseLog:         seriesOpt.UseLog,
		Regularization: seriesOpt.Regularization,
		SeasonalityOptions: options.SeasonalityOptions{
			SeasonalityConfigs: g.seasonalityConfigs(),
		},
	}

	return &forecaster.Options{
		SeriesOptions: &forecaster.SeriesOptions{
			ForecastOptions: seriesOpt,
		},
		UncertaintyOptions: &forecaster.UncertaintyOptions{
			ForecastOptions: uncertaintyOpt,
			ResidualWindow:  residualWindowDays,
			ResidualZscore:  residualZscore,
		},
	}, nil
}

func (g *GoForecaster) seasonalityConfigs() []options.SeasonalityConfig {
	var cfgs []options.SeasonalityConfig
	if g.cfg.YearlySeasonality {
		cfgs = append(cfgs, options.NewSeasonalityConfig("yearly", 365*24*time.Hour, yearlyOrders))
	}
	if g.cfg.WeeklySeasonality {
		cfgs = append(cfgs, options.NewWeeklySeasonalityConfig(weeklyOrders))
	}
	if g.cfg.DailySeasonality {
		cfgs = append(cfgs, options.NewDailySeasonalityConfig(dailyOrders))
	}
	return cfgs
}

// regularizationSweep maps the prior scales onto the engine's lasso lambda
// sweep. The engine picks the best lambda, so both priors contribute a
// candidate along with an unregularized baseline. Smaller priors mean
// stronger shrinkage.
func (g *GoForecaster) regularizationSweep() []float64 {
	sweep := []float64{0.0}
	for _, prior := range []float64{g.cfg.SeasonalityPriorScale, g.cfg.ChangepointPriorScale} {
		if prior <= 0 {
			continue
		}
		lambda := 1.0 / prior
		if !containsClose(sweep, lambda) {
			sweep = append(sweep, lambda)
		}
	}
	sort.Float64s(sweep)
	return sweep
}

func (g *GoForecaster) holidayEvents(t []time.Time) ([]options.Event, error) {
	if len(g.cfg.Holidays) == 0 || len(t) == 0 {
		return nil, nil
	}
	start := t[0]
	end := t[len(t)-1]

	var events []options.Event
	for _, name := range g.cfg.Holidays {
		hol, exists := holidays[name]
		if !exists {
			return nil, fmt.Errorf("%q, %w", name, ErrUnknownHoliday)
		}
		events = append(events, options.Holiday(hol, start, end, holidayWindow, holidayWindow)...)
	}
	return events, nil
}

func containsClose(vals []float64, v float64) bool {
	for _, val := range vals {
		if math.Abs(val-v) < 1e-12 {
			return true
		}
	}
	return false
}
