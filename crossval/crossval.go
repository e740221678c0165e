// Package crossval performs rolling-origin cross-validation of a forecast
// model configuration over a prepared series.
package crossval

import (
	"errors"
	"fmt"
	"time"

	"github.com/storecast/storecast/model"
	"github.com/storecast/storecast/series"
)

var (
	ErrInvalidPlan         = errors.New("initial, period, and horizon days must all be positive")
	ErrInsufficientHistory = errors.New("series span is shorter than the initial training period plus horizon")
	ErrNoHoldout           = errors.New("no actuals in the fold holdout window")
)

// Plan describes a rolling-origin evaluation: an initial training window,
// the number of days each successive cutoff advances, and the forecast
// horizon evaluated past each cutoff.
type Plan struct {
	InitialDays int `yaml:"initial_days" json:"initial_days"`
	PeriodDays  int `yaml:"period_days" json:"period_days"`
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`
}

// NewDefaultPlan evaluates 45 days ahead every 90 days after two years of
// initial training history.
func NewDefaultPlan() Plan {
	return Plan{
		InitialDays: 730,
		PeriodDays:  90,
		HorizonDays: 45,
	}
}

// Cutoffs returns the training cutoffs for the series, starting at the end
// of the initial window and advancing by the period while a full horizon of
// history remains past the cutoff.
func (p Plan) Cutoffs(s *series.Series) ([]time.Time, error) {
	if p.InitialDays <= 0 || p.PeriodDays <= 0 || p.HorizonDays <= 0 {
		return nil, ErrInvalidPlan
	}
	if s.SpanDays() < p.InitialDays+p.HorizonDays {
		return nil, fmt.Errorf(
			"span of %d days with initial %d and horizon %d, %w",
			s.SpanDays(), p.InitialDays, p.HorizonDays, ErrInsufficientHistory,
		)
	}

	end := s.EndTime()
	var cutoffs []time.Time
	for cutoff := s.StartTime().AddDate(0, 0, p.InitialDays); !cutoff.AddDate(0, 0, p.HorizonDays).After(end); cutoff = cutoff.AddDate(0, 0, p.PeriodDays) {
		cutoffs = append(cutoffs, cutoff)
	}
	return cutoffs, nil
}

// FoldRecord is one held-out comparison: the prediction made for a timestamp
// from a model trained only on data at or before the cutoff.
type FoldRecord struct {
	T         time.Time `json:"time"`
	Cutoff    time.Time `json:"cutoff"`
	Actual    float64   `json:"actual"`
	Predicted float64   `json:"predicted"`
}

// SkippedFold reports a fold that could not be evaluated.
type SkippedFold struct {
	Cutoff time.Time `json:"cutoff"`
	Err    error     `json:"-"`
}

// Result aggregates all fold records and the per-horizon performance table.
type Result struct {
	Records     []FoldRecord  `json:"records"`
	Performance []Performance `json:"performance"`
	Skipped     []SkippedFold `json:"skipped,omitempty"`
}

// Run executes the plan: per cutoff it fits a fresh predictor on the
// training slice, forecasts the held-out horizon, and records predictions
// against actuals. A fold whose fit or predict fails is skipped and reported
// rather than aborting the run. The validator holds no state across runs.
func Run(engine model.Engine, cfg model.Config, s *series.Series, plan Plan) (*Result, error) {
	cutoffs, err := plan.Cutoffs(s)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, cutoff := range cutoffs {
		records, err := runFold(engine, cfg, s, cutoff, plan.HorizonDays)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedFold{Cutoff: cutoff, Err: err})
			continue
		}
		res.Records = append(res.Records, records...)
	}
	res.Performance = Score(res.Records)
	return res, nil
}

func runFold(engine model.Engine, cfg model.Config, s *series.Series, cutoff time.Time, horizonDays int) ([]FoldRecord, error) {
	train := s.Truncate(cutoff)
	hold := s.Range(cutoff, cutoff.AddDate(0, 0, horizonDays))
	if hold.Len() == 0 {
		return nil, ErrNoHoldout
	}

	p, err := engine(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to construct predictor, %w", err)
	}
	if err := p.Fit(train.T, train.Y); err != nil {
		return nil, fmt.Errorf("unable to fit fold at cutoff %s, %w", cutoff.Format("2006-01-02"), err)
	}
	pred, err := p.Predict(hold.T)
	if err != nil {
		return nil, fmt.Errorf("unable to predict fold at cutoff %s, %w", cutoff.Format("2006-01-02"), err)
	}

	records := make([]FoldRecord, 0, hold.Len())
	for i := 0; i < hold.Len(); i++ {
		records = append(records, FoldRecord{
			T:         hold.T[i],
			Cutoff:    cutoff,
			Actual:    hold.Y[i],
			Predicted: pred.Point[i],
		})
	}
	return records, nil
}
