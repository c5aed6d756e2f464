// Package ledger owns the saving-goal and deposit state and the rules that
// keep its derived fields correct.
//
// This file implements the Strategy Pattern for the daily pacing figure.
// There are two distinct allocation rules, one for goal creation and one for
// every later mutation, and they base their day count on different dates.
// Keeping them as named strategies stops the wrong base date from sneaking in.
package ledger

import (
	"time"

	"cashsaver/internal/core"
)

// AllocationRule computes the amount that must be saved per remaining day for
// a goal to reach its target on time. Implementations never return a negative
// value.
type AllocationRule interface {
	// DailyAmount derives the pacing figure for the goal as of now.
	DailyAmount(g core.Goal, now time.Time) float64
}

// InitialAllocation is the creation-time rule. The day count runs over the
// goal's whole window [StartDate, EndDate]; when the window is empty the full
// remainder is due immediately.
type InitialAllocation struct{}

func (InitialAllocation) DailyAmount(g core.Goal, _ time.Time) float64 {
	remaining := g.TargetAmount - g.CurrentAmount
	days := core.DaysBetween(g.StartDate, g.EndDate)
	if days > 0 {
		return remaining / float64(days)
	}
	return remaining
}

// OngoingAllocation is the rule for every post-creation mutation. Pacing
// re-bases to "from now": the day count runs from the moment of recomputation
// to EndDate, and the figure collapses to zero once the goal is funded or the
// deadline has passed.
type OngoingAllocation struct{}

func (OngoingAllocation) DailyAmount(g core.Goal, now time.Time) float64 {
	remaining := g.TargetAmount - g.CurrentAmount
	days := core.DaysBetween(now, g.EndDate)
	if days > 0 && remaining > 0 {
		return remaining / float64(days)
	}
	return 0
}
