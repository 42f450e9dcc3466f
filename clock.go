package cachepool

import "time"

// Clock supplies the current time to a Pool and its Items. The default
// implementation uses time.Now; tests inject a fake to drive expiration
// without sleeping.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
