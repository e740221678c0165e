// Package storecast runs the single-series demand forecasting pipeline:
// prepare a (store, item) series, fit the external forecasting engine,
// generate a horizon forecast with uncertainty bounds, and evaluate accuracy
// with rolling-origin cross-validation.
package storecast

import (
	"errors"
	"fmt"

	"github.com/storecast/storecast/crossval"
	"github.com/storecast/storecast/model"
	"github.com/storecast/storecast/series"
)

var ErrNotFit = errors.New("pipeline has not been fit")

// DefaultHorizonDays is the forecast horizon used when none is requested.
const DefaultHorizonDays = 90

// Options carries everything a pipeline run depends on. A run is fully
// determined by (Options, Series) and shares no state with other runs.
type Options struct {
	Model           model.Config  `yaml:"model" json:"model"`
	HorizonDays     int           `yaml:"horizon_days" json:"horizon_days"`
	CrossValidation crossval.Plan `yaml:"cross_validation" json:"cross_validation"`

	// Engine constructs predictors. Defaults to the go-forecaster adapter.
	Engine model.Engine `yaml:"-" json:"-"`
}

// NewDefaultOptions returns options for a daily demand series: default model
// config, 90 day horizon, and a two year initial cross-validation window.
func NewDefaultOptions() *Options {
	return &Options{
		Model:           model.NewDefaultConfig(),
		HorizonDays:     DefaultHorizonDays,
		CrossValidation: crossval.NewDefaultPlan(),
		Engine:          model.NewGoForecaster,
	}
}

// Pipeline fits a forecast model to one series and generates forecasts and
// backtests from it.
type Pipeline struct {
	opt *Options

	predictor    model.Predictor
	trainingData *series.Series
}

// New creates a pipeline with the provided options. If no options are
// provided a default is used.
func New(opt *Options) (*Pipeline, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}

	// copy so concurrent runs sharing one Options never observe writes
	o := *opt
	if o.Engine == nil {
		o.Engine = model.NewGoForecaster
	}
	if o.HorizonDays <= 0 {
		o.HorizonDays = DefaultHorizonDays
	}
	return &Pipeline{opt: &o}, nil
}

// Fit constructs a fresh predictor for the configured model and fits it to
// the series.
func (p *Pipeline) Fit(s *series.Series) error {
	predictor, err := p.opt.Engine(p.opt.Model)
	if err != nil {
		return fmt.Errorf("unable to construct predictor, %w", err)
	}
	if err := predictor.Fit(s.T, s.Y); err != nil {
		return fmt.Errorf("unable to fit series, %w", err)
	}
	p.predictor = predictor
	p.trainingData = s.Copy()
	return nil
}

// Forecast extends the timeline horizonDays past the last historical
// timestamp at daily frequency, inclusive of the historical range, and
// predicts every timestamp. If horizonDays is not positive the configured
// horizon is used.
func (p *Pipeline) Forecast(horizonDays int) (*Forecast, error) {
	if p.predictor == nil {
		return nil, ErrNotFit
	}
	if horizonDays <= 0 {
		horizonDays = p.opt.HorizonDays
	}

	t := p.trainingData.FutureIndex(horizonDays)
	pred, err := p.predictor.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to generate forecast, %w", err)
	}
	return &Forecast{
		T:     pred.T,
		Point: pred.Point,
		Lower: pred.Lower,
		Upper: pred.Upper,
	}, nil
}

// Backtest runs the configured rolling-origin cross-validation plan against
// the training series, refitting per fold.
func (p *Pipeline) Backtest() (*crossval.Result, error) {
	if p.trainingData == nil {
		return nil, ErrNotFit
	}
	return crossval.Run(p.opt.Engine, p.opt.Model, p.trainingData, p.opt.CrossValidation)
}

// TrainingData returns the series the pipeline was fit on.
func (p *Pipeline) TrainingData() *series.Series {
	return p.trainingData
}

// RunResult pairs the horizon forecast with the cross-validated performance
// evaluation for one series.
type RunResult struct {
	Forecast *Forecast        `json:"forecast"`
	Backtest *crossval.Result `json:"backtest"`
}

// Run executes the whole pipeline as a pure function of the options and
// series. Runs over different series are fully independent and safe to map
// in parallel.
func Run(opt *Options, s *series.Series) (*RunResult, error) {
	p, err := New(opt)
	if err != nil {
		return nil, err
	}
	if err := p.Fit(s); err != nil {
		return nil, err
	}
	fc, err := p.Forecast(p.opt.HorizonDays)
	if err != nil {
		return nil, err
	}
	bt, err := p.Backtest()
	if err != nil {
		return nil, err
	}
	return &RunResult{
		Forecast: fc,
		Backtest: bt,
	}, nil
}
