package series

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT builds n consecutive daily timestamps starting at start.
func GenerateT(n int, start time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.AddDate(0, 0, i))
	}
	return t
}

// Values composes simulated daily demand components for test series.
type Values []float64

func (v Values) Add(src Values) Values {
	floats.Add(v, src)
	return v
}

func GenerateConst(n int, val float64) Values {
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = val
	}
	return Values(y)
}

// GenerateWave produces a sinusoid with the given amplitude and period in
// days evaluated at each timestamp.
func GenerateWave(t []time.Time, amp, periodDays, order float64) Values {
	n := len(t)
	y := make([]float64, 0, n)
	periodSec := periodDays * 86400.0
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*float64(t[i].Unix()))
		y = append(y, val)
	}
	return Values(y)
}

// GenerateNoise produces gaussian noise scaled by noiseScale.
func GenerateNoise(t []time.Time, noiseScale float64) Values {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rand.NormFloat64()*noiseScale)
	}
	return Values(y)
}

// GenerateChange applies a level shift and per-day slope starting at the
// changepoint time.
func GenerateChange(t []time.Time, chpt time.Time, bias, slopePerDay float64) Values {
	n := len(t)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		if t[i].After(chpt) || t[i].Equal(chpt) {
			y[i] = bias + slopePerDay*t[i].Sub(chpt).Hours()/24.0
		}
	}
	return Values(y)
}

// ClampMin floors every value at min, useful for keeping simulated demand
// non-negative.
func (v Values) ClampMin(min float64) Values {
	for i := range v {
		if v[i] < min {
			v[i] = min
		}
	}
	return v
}
