package crossval

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecast/storecast/model"
	"github.com/storecast/storecast/series"
)

func dailySeries(t *testing.T, n int) *series.Series {
	t.Helper()
	start := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	tIdx := series.GenerateT(n, start)
	y := make(series.Values, n)
	y.Add(series.GenerateConst(n, 50)).
		Add(series.GenerateWave(tIdx, 10, 365, 1)).
		Add(series.GenerateWave(tIdx, 5, 7, 1)).
		ClampMin(0)
	s, err := series.New(tIdx, y)
	require.NoError(t, err)
	return s
}

func TestCutoffs(t *testing.T) {
	t.Run("five year series", func(t *testing.T) {
		// 1825 daily points, initial 730, period 90, horizon 45
		s := dailySeries(t, 1825)
		plan := Plan{InitialDays: 730, PeriodDays: 90, HorizonDays: 45}

		cutoffs, err := plan.Cutoffs(s)
		require.NoError(t, err)

		spanDays := s.SpanDays()
		expected := (spanDays-plan.InitialDays-plan.HorizonDays)/plan.PeriodDays + 1
		assert.Len(t, cutoffs, expected)

		assert.Equal(t, s.StartTime().AddDate(0, 0, 730), cutoffs[0])
		assert.Equal(t, s.StartTime().AddDate(0, 0, 820), cutoffs[1])
		for i := 1; i < len(cutoffs); i++ {
			assert.Equal(t, cutoffs[i-1].AddDate(0, 0, plan.PeriodDays), cutoffs[i])
		}
		// every cutoff leaves a full horizon of history
		last := cutoffs[len(cutoffs)-1]
		assert.False(t, last.AddDate(0, 0, plan.HorizonDays).After(s.EndTime()))
	})

	t.Run("insufficient history", func(t *testing.T) {
		s := dailySeries(t, 100)
		plan := Plan{InitialDays: 90, PeriodDays: 30, HorizonDays: 30}
		_, err := plan.Cutoffs(s)
		assert.ErrorIs(t, err, ErrInsufficientHistory)
	})

	t.Run("invalid plan", func(t *testing.T) {
		s := dailySeries(t, 100)
		_, err := Plan{InitialDays: 0, PeriodDays: 30, HorizonDays: 30}.Cutoffs(s)
		assert.ErrorIs(t, err, ErrInvalidPlan)
	})
}

func TestRun(t *testing.T) {
	s := dailySeries(t, 900)
	plan := Plan{InitialDays: 365, PeriodDays: 90, HorizonDays: 45}

	res, err := Run(model.NewNaive, model.Config{}, s, plan)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)

	// 6 folds of 45 held-out days each
	assert.Len(t, res.Records, 6*45)
	require.Len(t, res.Performance, 45)
	for i, p := range res.Performance {
		assert.Equal(t, i+1, p.HorizonDays)
		assert.Equal(t, 6, p.N)
		assert.GreaterOrEqual(t, p.MAE, 0.0)
		assert.LessOrEqual(t, p.MAE, p.RMSE+1e-12)
	}

	for _, rec := range res.Records {
		assert.True(t, rec.T.After(rec.Cutoff))
		assert.False(t, rec.T.After(rec.Cutoff.AddDate(0, 0, plan.HorizonDays)))
	}
}

type flakyPredictor struct {
	failLen int
	naive   model.Predictor
}

func (f *flakyPredictor) Fit(t []time.Time, y []float64) error {
	if len(t) == f.failLen {
		return errors.New("fit diverged")
	}
	return f.naive.Fit(t, y)
}

func (f *flakyPredictor) Predict(t []time.Time) (*model.Prediction, error) {
	return f.naive.Predict(t)
}

func TestRunSkipsFailedFold(t *testing.T) {
	s := dailySeries(t, 900)
	plan := Plan{InitialDays: 365, PeriodDays: 90, HorizonDays: 45}

	// second cutoff at day 455 trains on 456 points
	engine := func(cfg model.Config) (model.Predictor, error) {
		naive, err := model.NewNaive(cfg)
		if err != nil {
			return nil, err
		}
		return &flakyPredictor{failLen: 456, naive: naive}, nil
	}

	res, err := Run(engine, model.Config{}, s, plan)
	require.NoError(t, err)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, s.StartTime().AddDate(0, 0, 455), res.Skipped[0].Cutoff)
	assert.Len(t, res.Records, 5*45)
}
