// Package stats reduces the goal set into the summary figures shown on the
// statistics screen.
package stats

import "cashsaver/internal/core"

// Aggregate folds all goals into summary totals. No error conditions: an
// empty input yields all zeros.
func Aggregate(goals []core.Goal) core.Totals {
	var t core.Totals
	for _, g := range goals {
		t.TotalSaved += g.CurrentAmount
		t.TotalTarget += g.TargetAmount
		if g.IsCompleted {
			t.CompletedGoals++
		} else {
			t.ActiveGoals++
		}
	}
	return t
}
