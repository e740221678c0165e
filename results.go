package storecast

import (
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/storecast/storecast/crossval"
)

// Forecast holds the generated forecast in columnar form, one entry per
// daily timestamp from the series start through the horizon.
type Forecast struct {
	T     []time.Time `json:"time"`
	Point []float64   `json:"point"`
	Lower []float64   `json:"lower"`
	Upper []float64   `json:"upper"`
}

// Row is a single forecast table entry.
type Row struct {
	T     time.Time `json:"time"`
	Point float64   `json:"point"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// Rows returns the forecast as ordered rows.
func (f *Forecast) Rows() []Row {
	rows := make([]Row, 0, len(f.T))
	for i := range f.T {
		rows = append(rows, Row{
			T:     f.T[i],
			Point: f.Point[i],
			Lower: f.Lower[i],
			Upper: f.Upper[i],
		})
	}
	return rows
}

// WriteJSON writes the forecast table as JSON.
func (f *Forecast) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f.Rows())
}

// WritePerformanceJSON writes the per-horizon performance table as JSON.
func WritePerformanceJSON(w io.Writer, perf []crossval.Performance) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(perf)
}
