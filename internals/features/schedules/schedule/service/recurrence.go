package service

import (
	"time"

	"cleanops_backend/internals/features/schedules/schedule/model"
	"cleanops_backend/internals/helpers/dbtime"
)

// Occurrences expands a recurrence anchored at anchor into the dates inside [from, to].
// Month-based patterns always count from the anchor so a clamped day (31 -> 28) never drifts.
func Occurrences(pattern string, anchor, from, to dbtime.Date) []dbtime.Date {
	if to.Before(from) {
		return nil
	}
	switch pattern {
	case model.PatternDaily:
		return dayStep(anchor, from, to, 1)
	case model.PatternWeekly:
		return dayStep(anchor, from, to, 7)
	case model.PatternBiweekly:
		return dayStep(anchor, from, to, 14)
	case model.PatternMonthly:
		return monthStep(anchor, from, to, 1)
	case model.PatternQuarterly:
		return monthStep(anchor, from, to, 3)
	}
	return nil
}

func dayStep(anchor, from, to dbtime.Date, step int) []dbtime.Date {
	d := anchor
	if from.After(anchor) {
		k := (anchor.DaysUntil(from) + step - 1) / step
		d = anchor.AddDays(k * step)
	}
	var out []dbtime.Date
	for ; !d.After(to); d = d.AddDays(step) {
		out = append(out, d)
	}
	return out
}

func monthStep(anchor, from, to dbtime.Date, step int) []dbtime.Date {
	var out []dbtime.Date
	for k := 0; ; k++ {
		d := AddMonthsClamped(anchor, k*step)
		if d.After(to) {
			return out
		}
		if !d.Before(from) {
			out = append(out, d)
		}
	}
}

// AddMonthsClamped moves n months and clamps the day to the target month's length.
func AddMonthsClamped(d dbtime.Date, n int) dbtime.Date {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return dbtime.NewDate(first.Year(), first.Month(), day)
}
