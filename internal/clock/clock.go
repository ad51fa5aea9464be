package clock

import "time"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Provide returns the wall clock for fx wiring.
func Provide() Clock {
	return SystemClock{}
}
