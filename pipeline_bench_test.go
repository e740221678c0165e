package storecast

import (
	"testing"

	"github.com/pkg/profile"
)

var benchRunRes *RunResult

func BenchmarkRun(b *testing.B) {
	s := simulatedSeries(b, 1825)
	opt := naiveOptions()

	var err error
	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for b.Loop() {
		benchRunRes, err = Run(opt, s)
		if err != nil {
			panic(err)
		}
	}
}
