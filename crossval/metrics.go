package crossval

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"
	"time"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoPairs        = errors.New("no prediction pairs to score")
)

// Scores holds the forecast error aggregates for one set of
// (predicted, actual) pairs. Percentage terms exclude pairs whose actual is
// zero, and SMAPE excludes pairs where both sides are zero.
type Scores struct {
	MSE   float64 `json:"mse"`
	RMSE  float64 `json:"rmse"`
	MAE   float64 `json:"mae"`
	MAPE  float64 `json:"mape"`
	MDAPE float64 `json:"mdape"`
	SMAPE float64 `json:"smape"`
}

// NewScores computes error aggregates over the predicted and actual slices.
// NaN pairs are skipped.
func NewScores(predicted, actual []float64) (*Scores, error) {
	if len(predicted) != len(actual) {
		return nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	var (
		sqSum, absSum float64
		n             int
		apeTerms      []float64
		smapeSum      float64
		smapeN        int
	)
	for i := 0; i < len(actual); i++ {
		a, p := actual[i], predicted[i]
		if math.IsNaN(a) || math.IsNaN(p) {
			continue
		}
		diff := math.Abs(a - p)
		sqSum += diff * diff
		absSum += diff
		n++

		if a != 0 {
			apeTerms = append(apeTerms, diff/math.Abs(a))
		}
		if a != 0 || p != 0 {
			smapeSum += 2.0 * diff / (math.Abs(a) + math.Abs(p))
			smapeN++
		}
	}
	if n == 0 {
		return nil, ErrNoPairs
	}

	s := &Scores{
		MSE: sqSum / float64(n),
		MAE: absSum / float64(n),
	}
	s.RMSE = math.Sqrt(s.MSE)
	if len(apeTerms) > 0 {
		s.MAPE = stat.Mean(apeTerms, nil)
		sort.Float64s(apeTerms)
		s.MDAPE = stat.Quantile(0.5, stat.Empirical, apeTerms, nil)
	}
	if smapeN > 0 {
		s.SMAPE = smapeSum / float64(smapeN)
	}
	return s, nil
}

// Performance is the error aggregate for all fold records sharing a
// forecast-horizon offset.
type Performance struct {
	HorizonDays int `json:"horizon_days"`
	N           int `json:"n"`
	Scores
}

// Score buckets fold records by days past their cutoff and computes error
// aggregates per bucket, ordered by increasing horizon.
func Score(records []FoldRecord) []Performance {
	buckets := make(map[int][]FoldRecord)
	for _, rec := range records {
		offset := int(rec.T.Sub(rec.Cutoff) / (24 * time.Hour))
		buckets[offset] = append(buckets[offset], rec)
	}

	offsets := make([]int, 0, len(buckets))
	for offset := range buckets {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)

	perf := make([]Performance, 0, len(offsets))
	for _, offset := range offsets {
		recs := buckets[offset]
		predicted := make([]float64, 0, len(recs))
		actual := make([]float64, 0, len(recs))
		for _, rec := range recs {
			predicted = append(predicted, rec.Predicted)
			actual = append(actual, rec.Actual)
		}
		scores, err := NewScores(predicted, actual)
		if err != nil {
			continue
		}
		perf = append(perf, Performance{
			HorizonDays: offset,
			N:           len(recs),
			Scores:      *scores,
		})
	}
	return perf
}

// TablePrint writes the performance records as an aligned table.
func TablePrint(w io.Writer, perf []Performance) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tbl, "Horizon\tN\tMSE\tRMSE\tMAE\tMAPE\tMDAPE\tSMAPE\t\n")
	for _, p := range perf {
		fmt.Fprintf(tbl, "%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
			p.HorizonDays, p.N, p.MSE, p.RMSE, p.MAE, p.MAPE, p.MDAPE, p.SMAPE)
	}
	return tbl.Flush()
}
