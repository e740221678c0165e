package dataset

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"gonum.org/v1/gonum/stat"
)

var ErrEmptyTable = errors.New("no observations to summarize")

// Summary holds descriptive statistics over the sales column of a table
// along with the date span and store/item cardinality.
type Summary struct {
	Count  int       `json:"count"`
	Stores int       `json:"stores"`
	Items  int       `json:"items"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`

	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Summarize computes descriptive statistics over all observations.
func (tbl Table) Summarize() (*Summary, error) {
	if len(tbl) == 0 {
		return nil, ErrEmptyTable
	}

	sales := make([]float64, 0, len(tbl))
	stores := make(map[int]struct{})
	items := make(map[int]struct{})
	start := tbl[0].Date
	end := tbl[0].Date
	for _, obs := range tbl {
		sales = append(sales, obs.Sales)
		stores[obs.Store] = struct{}{}
		items[obs.Item] = struct{}{}
		if obs.Date.Before(start) {
			start = obs.Date
		}
		if obs.Date.After(end) {
			end = obs.Date
		}
	}
	sort.Float64s(sales)

	mean, stddev := stat.MeanStdDev(sales, nil)
	return &Summary{
		Count:  len(tbl),
		Stores: len(stores),
		Items:  len(items),
		Start:  start,
		End:    end,
		Mean:   mean,
		StdDev: stddev,
		Min:    sales[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sales, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sales, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sales, nil),
		Max:    sales[len(sales)-1],
	}, nil
}

// TablePrint writes the summary as an aligned table.
func (s *Summary) TablePrint(w io.Writer) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tbl, "Count\tStores\tItems\tStart\tEnd\t\n")
	fmt.Fprintf(tbl, "%d\t%d\t%d\t%s\t%s\t\n",
		s.Count, s.Stores, s.Items,
		s.Start.Format(DateLayout), s.End.Format(DateLayout))
	fmt.Fprintf(tbl, "Mean\tStdDev\tMin\tQ1\tMedian\tQ3\tMax\t\n")
	fmt.Fprintf(tbl, "%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
		s.Mean, s.StdDev, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	return tbl.Flush()
}
