// Package model defines the forecasting capability contract and the adapter
// translating a model configuration onto the external forecasting engine.
package model

import "time"

// Growth selects the trend growth mode.
type Growth string

const (
	GrowthLinear   Growth = "linear"
	GrowthLogistic Growth = "logistic"
)

// SeasonalityMode selects whether seasonal components add to or multiply
// the trend.
type SeasonalityMode string

const (
	SeasonalityAdditive       SeasonalityMode = "additive"
	SeasonalityMultiplicative SeasonalityMode = "multiplicative"
)

// Config fully determines fitting behavior for a given series. Immutable.
type Config struct {
	Growth          Growth          `yaml:"growth" json:"growth"`
	SeasonalityMode SeasonalityMode `yaml:"seasonality_mode" json:"seasonality_mode"`

	ChangepointPriorScale float64 `yaml:"changepoint_prior_scale" json:"changepoint_prior_scale"`
	SeasonalityPriorScale float64 `yaml:"seasonality_prior_scale" json:"seasonality_prior_scale"`

	YearlySeasonality bool `yaml:"yearly_seasonality" json:"yearly_seasonality"`
	WeeklySeasonality bool `yaml:"weekly_seasonality" json:"weekly_seasonality"`
	DailySeasonality  bool `yaml:"daily_seasonality" json:"daily_seasonality"`

	// Holidays names US holidays to model as event windows, e.g.
	// "christmas" or "thanksgiving". See HolidayNames for the full set.
	Holidays []string `yaml:"holidays" json:"holidays"`
}

// NewDefaultConfig returns the configuration used for daily demand series:
// linear growth, additive seasonality, yearly and weekly components.
func NewDefaultConfig() Config {
	return Config{
		Growth:                GrowthLinear,
		SeasonalityMode:       SeasonalityAdditive,
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10.0,
		YearlySeasonality:     true,
		WeeklySeasonality:     true,
		DailySeasonality:      false,
	}
}

// Prediction holds point estimates with uncertainty bounds per timestamp.
type Prediction struct {
	T     []time.Time `json:"time"`
	Point []float64   `json:"point"`
	Lower []float64   `json:"lower"`
	Upper []float64   `json:"upper"`
}

// Predictor is the external forecasting capability. Any implementation
// providing fit and predict with these semantics is substitutable; the
// forecasting math itself is not owned by this repository.
type Predictor interface {
	Fit(t []time.Time, y []float64) error
	Predict(t []time.Time) (*Prediction, error)
}

// Engine constructs an unfitted Predictor for a configuration. A fresh
// Predictor is created per fit so cross-validation folds stay independent.
type Engine func(cfg Config) (Predictor, error)
