// Package series prepares a single (store, item) demand series for modeling.
package series

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/storecast/storecast/dataset"
)

var (
	ErrEmptySeries        = errors.New("no observations for requested store and item")
	ErrDuplicateTimestamp = errors.New("multiple values share a timestamp")
	ErrNoData             = errors.New("series has no data")
	ErrLenMismatch        = errors.New("time feature has a different length than observations")
)

// Series is an ordered univariate time series. Timestamps are strictly
// increasing with exactly one value per timestamp.
type Series struct {
	T []time.Time
	Y []float64
}

// New builds a Series from parallel time and value slices. The time slice
// must already be strictly increasing.
func New(t []time.Time, y []float64) (*Series, error) {
	if len(y) == 0 {
		return nil, ErrNoData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrLenMismatch,
		)
	}
	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			if t[i].Equal(t[i-1]) {
				return nil, fmt.Errorf("at %s, %w", t[i].Format(dataset.DateLayout), ErrDuplicateTimestamp)
			}
			return nil, fmt.Errorf("non-monotonic at index %d", i)
		}
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(y))
	copy(tSeries, t)
	copy(ySeries, y)
	return &Series{T: tSeries, Y: ySeries}, nil
}

// Prepare filters the table to one (store, item) pair and renormalizes the
// surviving rows to a chronologically sorted (timestamp, value) series.
// Returns ErrEmptySeries if no rows match and ErrDuplicateTimestamp if two
// rows share a date after filtering.
func Prepare(tbl dataset.Table, store, item int) (*Series, error) {
	var matched []dataset.Observation
	for _, obs := range tbl {
		if obs.Store == store && obs.Item == item {
			matched = append(matched, obs)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("store %d item %d, %w", store, item, ErrEmptySeries)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})

	t := make([]time.Time, 0, len(matched))
	y := make([]float64, 0, len(matched))
	for i, obs := range matched {
		if i > 0 && obs.Date.Equal(matched[i-1].Date) {
			return nil, fmt.Errorf(
				"store %d item %d at %s, %w",
				store, item, obs.Date.Format(dataset.DateLayout), ErrDuplicateTimestamp,
			)
		}
		t = append(t, obs.Date)
		y = append(y, obs.Sales)
	}
	return &Series{T: t, Y: y}, nil
}

// Len returns the number of points in the series.
func (s *Series) Len() int {
	return len(s.T)
}

// StartTime returns the first timestamp of the series.
func (s *Series) StartTime() time.Time {
	return TimeSlice(s.T).StartTime()
}

// EndTime returns the last timestamp of the series.
func (s *Series) EndTime() time.Time {
	return TimeSlice(s.T).EndTime()
}

// SpanDays returns the whole number of days between the first and last
// timestamp.
func (s *Series) SpanDays() int {
	return TimeSlice(s.T).SpanDays()
}

// Copy returns a deep copy of the series.
func (s *Series) Copy() *Series {
	t := make([]time.Time, len(s.T))
	y := make([]float64, len(s.Y))
	copy(t, s.T)
	copy(y, s.Y)
	return &Series{T: t, Y: y}
}

// Truncate returns the sub-series of points at or before the cutoff.
func (s *Series) Truncate(cutoff time.Time) *Series {
	n := sort.Search(len(s.T), func(i int) bool {
		return s.T[i].After(cutoff)
	})
	return &Series{T: s.T[:n], Y: s.Y[:n]}
}

// Range returns the sub-series of points strictly after `after` and at or
// before `through`.
func (s *Series) Range(after, through time.Time) *Series {
	lo := sort.Search(len(s.T), func(i int) bool {
		return s.T[i].After(after)
	})
	hi := sort.Search(len(s.T), func(i int) bool {
		return s.T[i].After(through)
	})
	return &Series{T: s.T[lo:hi], Y: s.Y[lo:hi]}
}

// FutureIndex builds the daily timestamp sequence starting at the first
// historical timestamp and extending horizonDays past the last historical
// timestamp, inclusive and gap-free. The historical range is included so
// model components can be inspected over the fit window.
func (s *Series) FutureIndex(horizonDays int) []time.Time {
	if s.Len() == 0 {
		return nil
	}
	last := s.EndTime().AddDate(0, 0, horizonDays)
	t := make([]time.Time, 0, s.SpanDays()+horizonDays+1)
	for cur := s.StartTime(); !cur.After(last); cur = cur.AddDate(0, 0, 1) {
		t = append(t, cur)
	}
	return t
}
