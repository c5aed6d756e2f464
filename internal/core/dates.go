package core

import "time"

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween counts whole calendar days from a to b, day granularity. The
// result is negative when b's day falls before a's day. Time-of-day never
// contributes: 23:59 on Monday to 00:01 on Tuesday is one day.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	// Normalize both days to UTC midnight so DST transitions cannot skew the
	// count.
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar day, evaluated in
// a's location. A deposit at 23:30 and a query at 00:30 the next day are
// different days even though they are an hour apart.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// InDayRange reports whether day falls within [start, end] at day granularity.
func InDayRange(day, start, end time.Time) bool {
	d := StartOfDay(day)
	return !d.Before(StartOfDay(start)) && !d.After(StartOfDay(end))
}
