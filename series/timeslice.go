package series

import "time"

// TimeSlice adds range helpers over an ordered slice of timestamps.
type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}
	return t[len(t)-1]
}

// SpanDays returns the whole number of days covered between the first and
// last timestamp.
func (t TimeSlice) SpanDays() int {
	if len(t) < 2 {
		return 0
	}
	return int(t.EndTime().Sub(t.StartTime()) / (24 * time.Hour))
}

// Continuous reports whether the slice advances in single calendar-day steps
// with no gaps.
func (t TimeSlice) Continuous() bool {
	for i := 1; i < len(t); i++ {
		if !t[i].Equal(t[i-1].AddDate(0, 0, 1)) {
			return false
		}
	}
	return true
}
