// Package calendar classifies calendar days for a goal, one status per
// visible day marker.
package calendar

import (
	"time"

	"cashsaver/internal/core"
)

// StatusFor classifies one date for one goal. Pure read-side query: it may be
// called once per visible calendar cell with no side effects.
//
// The goal's single DailyAmount figure is the required amount for every day
// in range. That is a deliberate simplification carried over from the
// original behavior, not a per-day schedule; see RequiredOn.
func StatusFor(g core.Goal, deposits []core.Deposit, date time.Time) core.DayStatus {
	if !core.InDayRange(date, g.StartDate, g.EndDate) {
		return core.StatusNotApplicable
	}

	required := RequiredOn(g, date)
	if required <= 0 {
		return core.StatusNotApplicable
	}

	if DepositedOn(deposits, date) >= required {
		return core.StatusCompleted
	}
	// A day with nothing deposited is incomplete, not out of scope: the
	// target was due that day.
	return core.StatusIncomplete
}

// RequiredOn returns the amount due on the given day: the goal's current
// pacing figure for any in-range day, zero otherwise.
func RequiredOn(g core.Goal, date time.Time) float64 {
	if core.SameDay(date, g.StartDate) || core.InDayRange(date, g.StartDate, g.EndDate) {
		return g.DailyAmount
	}
	return 0
}

// DepositedOn sums the deposits recorded on the same calendar day as date.
func DepositedOn(deposits []core.Deposit, date time.Time) float64 {
	var sum float64
	for _, d := range deposits {
		if core.SameDay(date, d.Date) {
			sum += d.Amount
		}
	}
	return sum
}

// DayStatus pairs a day with its classification, used by the month view.
type DayStatus struct {
	Day    time.Time
	Status core.DayStatus
}

// MonthStatuses classifies every day of the month containing ref.
func MonthStatuses(g core.Goal, deposits []core.Deposit, ref time.Time) []DayStatus {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	next := first.AddDate(0, 1, 0)

	var out []DayStatus
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		out = append(out, DayStatus{Day: day, Status: StatusFor(g, deposits, day)})
	}
	return out
}
