package foldbench

import "time"

// nowFunc is the clock source. Tests swap it for a scripted clock.
var nowFunc = time.Now

// Clock measures elapsed time from a monotonic reading.
//
// time.Now carries a monotonic component, and Sub between two such values
// ignores wall-clock adjustments, so readings never go backwards.
type Clock struct {
	start time.Time
}

// StartClock opens a timing interval.
func StartClock() Clock {
	return Clock{start: nowFunc()}
}

// Elapsed returns the duration since StartClock. It may be called repeatedly;
// each call returns a fresh, non-decreasing reading.
func (c Clock) Elapsed() time.Duration {
	d := nowFunc().Sub(c.start)
	if d < 0 {
		return 0
	}
	return d
}

// ElapsedMS returns Elapsed as fractional milliseconds.
func (c Clock) ElapsedMS() float64 {
	return durationMS(c.Elapsed())
}

// TimeRegion runs fn inside a timing interval and returns the elapsed
// milliseconds together with fn's error. The reading is taken on every exit
// path, including a panic unwinding through fn.
func TimeRegion(fn func() error) (ms float64, err error) {
	clock := StartClock()
	defer func() {
		ms = clock.ElapsedMS()
	}()
	return 0, fn()
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
