package game

import "time"

// Clock supplies wall-clock time to the session.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
