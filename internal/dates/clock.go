package dates

import "time"

// Clock supplies "today" to date-relative parsing.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock in Location (UTC when nil).
type SystemClock struct {
	Location *time.Location
}

// Today returns the current calendar date in the clock's location.
func (c SystemClock) Today() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return Truncate(time.Now().In(loc))
}

// FixedClock always reports the same day.
type FixedClock time.Time

// Today returns the fixed date.
func (c FixedClock) Today() time.Time { return Truncate(time.Time(c)) }
