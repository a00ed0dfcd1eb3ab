package dbtime

import "time"

// Today is the current calendar date in loc (UTC when nil).
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(time.Now().In(loc))
}

// NowUTC is the server clock used for recorded events (check-in, review, ...).
func NowUTC() time.Time { return time.Now().UTC() }
