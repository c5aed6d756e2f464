package stats

import (
	"testing"

	"cashsaver/internal/core"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		goals []core.Goal
		want  core.Totals
	}{
		{
			name:  "empty set is all zeros",
			goals: nil,
			want:  core.Totals{},
		},
		{
			name: "one completed one active",
			goals: []core.Goal{
				{TargetAmount: 100, CurrentAmount: 100, IsCompleted: true},
				{TargetAmount: 200, CurrentAmount: 50},
			},
			want: core.Totals{
				TotalSaved:     150,
				TotalTarget:    300,
				CompletedGoals: 1,
				ActiveGoals:    1,
			},
		},
		{
			name: "completed goals still count toward totals",
			goals: []core.Goal{
				{TargetAmount: 100, CurrentAmount: 120, IsCompleted: true},
				{TargetAmount: 400, CurrentAmount: 0},
				{TargetAmount: 50, CurrentAmount: 25},
			},
			want: core.Totals{
				TotalSaved:     145,
				TotalTarget:    550,
				CompletedGoals: 1,
				ActiveGoals:    2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.goals); got != tt.want {
				t.Errorf("Aggregate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
