// Package batch maps the single-series pipeline over many (store, item)
// pairs. Each run is self-contained so pairs fan out with no coordination
// beyond collecting results.
package batch

import (
	"context"
	"sync"

	"github.com/storecast/storecast"
	"github.com/storecast/storecast/dataset"
	"github.com/storecast/storecast/series"
)

// Job identifies one (store, item) series to forecast.
type Job struct {
	Store int `yaml:"store" json:"store"`
	Item  int `yaml:"item" json:"item"`
}

// Outcome is the result of one job. Err is set when that job's preparation
// or pipeline run failed; other jobs are unaffected.
type Outcome struct {
	Job    Job                  `json:"job"`
	Result *storecast.RunResult `json:"result,omitempty"`
	Err    error                `json:"-"`
}

// AllJobs returns a job for every distinct (store, item) pair in the table.
func AllJobs(tbl dataset.Table) []Job {
	pairs := tbl.Pairs()
	jobs := make([]Job, 0, len(pairs))
	for _, pair := range pairs {
		jobs = append(jobs, Job{Store: pair[0], Item: pair[1]})
	}
	return jobs
}

// Run executes the pipeline per job with at most parallelism runs in
// flight. Outcomes are returned in job order. Cancelling the context stops
// dispatching new jobs; jobs not started report the context error.
func Run(ctx context.Context, tbl dataset.Table, opt *storecast.Options, jobs []Job, parallelism int) []Outcome {
	if parallelism <= 0 || parallelism > len(jobs) {
		parallelism = len(jobs)
	}

	outcomes := make([]Outcome, len(jobs))
	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup

	for i, job := range jobs {
		outcomes[i] = Outcome{Job: job}
		if err := ctx.Err(); err != nil {
			outcomes[i].Err = err
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, job Job) {
			defer func() {
				<-sem
				wg.Done()
			}()
			outcomes[i].Result, outcomes[i].Err = runJob(tbl, opt, job)
		}(i, job)
	}
	wg.Wait()
	return outcomes
}

func runJob(tbl dataset.Table, opt *storecast.Options, job Job) (*storecast.RunResult, error) {
	s, err := series.Prepare(tbl, job.Store, job.Item)
	if err != nil {
		return nil, err
	}
	return storecast.Run(opt, s)
}
