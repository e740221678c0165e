package model

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Naive is a persistence baseline: every prediction is the last fitted
// value, with bounds from the standard deviation of day-over-day changes.
// It exists to sanity-check pipelines and as a second implementation of the
// Predictor capability.
type Naive struct {
	last   float64
	stddev float64
	fitted bool
}

// NewNaive constructs the baseline engine. The configuration is ignored.
func NewNaive(_ Config) (Predictor, error) {
	return &Naive{}, nil
}

func (n *Naive) Fit(t []time.Time, y []float64) error {
	if len(y) == 0 {
		return ErrModelFit
	}
	n.last = y[len(y)-1]

	if len(y) > 1 {
		diffs := make([]float64, 0, len(y)-1)
		for i := 1; i < len(y); i++ {
			diffs = append(diffs, y[i]-y[i-1])
		}
		n.stddev = stat.StdDev(diffs, nil)
		if math.IsNaN(n.stddev) {
			n.stddev = 0
		}
	}
	n.fitted = true
	return nil
}

func (n *Naive) Predict(t []time.Time) (*Prediction, error) {
	if !n.fitted {
		return nil, ErrNotFitted
	}
	point := make([]float64, len(t))
	lower := make([]float64, len(t))
	upper := make([]float64, len(t))
	for i := range t {
		point[i] = n.last
		lower[i] = n.last - 1.96*n.stddev
		upper[i] = n.last + 1.96*n.stddev
	}
	return &Prediction{T: t, Point: point, Lower: lower, Upper: upper}, nil
}
