package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecast/storecast"
	"github.com/storecast/storecast/crossval"
	"github.com/storecast/storecast/dataset"
	"github.com/storecast/storecast/model"
	"github.com/storecast/storecast/series"
)

func simulatedTable(t *testing.T, n int, pairs [][2]int) dataset.Table {
	t.Helper()
	start := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	tIdx := series.GenerateT(n, start)

	var tbl dataset.Table
	for _, pair := range pairs {
		y := make(series.Values, n)
		y.Add(series.GenerateConst(n, float64(10*pair[0]+pair[1]))).
			Add(series.GenerateWave(tIdx, 5, 7, 1)).
			ClampMin(0)
		for i := 0; i < n; i++ {
			tbl = append(tbl, dataset.Observation{
				Date:  tIdx[i],
				Store: pair[0],
				Item:  pair[1],
				Sales: y[i],
			})
		}
	}
	return tbl
}

func testOptions() *storecast.Options {
	return &storecast.Options{
		HorizonDays:     90,
		CrossValidation: crossval.Plan{InitialDays: 365, PeriodDays: 90, HorizonDays: 45},
		Engine:          model.NewNaive,
	}
}

func TestRun(t *testing.T) {
	n := 900
	tbl := simulatedTable(t, n, [][2]int{{1, 1}, {1, 2}, {2, 1}})

	jobs := AllJobs(tbl)
	require.Equal(t, []Job{{Store: 1, Item: 1}, {Store: 1, Item: 2}, {Store: 2, Item: 1}}, jobs)
	jobs = append(jobs, Job{Store: 9, Item: 9})

	outcomes := Run(context.Background(), tbl, testOptions(), jobs, 2)
	require.Len(t, outcomes, 4)

	for _, outcome := range outcomes[:3] {
		require.NoError(t, outcome.Err, "store %d item %d", outcome.Job.Store, outcome.Job.Item)
		require.NotNil(t, outcome.Result)
		assert.Len(t, outcome.Result.Forecast.T, n+90)
	}

	// the absent pair fails without affecting the others
	assert.ErrorIs(t, outcomes[3].Err, series.ErrEmptySeries)
	assert.Nil(t, outcomes[3].Result)
}

func TestRunCancelled(t *testing.T) {
	tbl := simulatedTable(t, 900, [][2]int{{1, 1}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := Run(ctx, tbl, testOptions(), AllJobs(tbl), 1)
	require.Len(t, outcomes, 1)
	assert.ErrorIs(t, outcomes[0].Err, context.Canceled)
}
