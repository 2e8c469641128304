package service

import "time"

// Clock abstracts the wall clock so services that reason about calendar
// dates (overdue derivation, notification dedup) can be tested against a
// fixed day.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// realClock is the production Clock backed by time.Now.
type realClock struct{}

// NewClock returns the production wall clock.
func NewClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}
