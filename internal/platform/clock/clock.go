package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports local wall-clock time; schedule matching follows
// whatever day and minute the user's machine is on.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
