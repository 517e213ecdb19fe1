package services

import "time"

// Clock abstracts the current time so promotion windows and delivery
// lateness can be tested deterministically.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock is the clock used outside of tests.
var SystemClock Clock = realClock{}
