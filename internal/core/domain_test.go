package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateNewGoal(t *testing.T) {
	start := date(2024, time.January, 1)
	end := date(2024, time.June, 30)

	tests := []struct {
		name    string
		title   string
		target  float64
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"valid goal", "Vacation", 1200, start, end, nil},
		{"empty title", "", 1200, start, end, ErrEmptyTitle},
		{"whitespace title", "   ", 1200, start, end, ErrEmptyTitle},
		{"zero target", "Vacation", 0, start, end, ErrInvalidTarget},
		{"negative target", "Vacation", -50, start, end, ErrInvalidTarget},
		{"end before start", "Vacation", 1200, end, start, ErrInvalidDateRange},
		{"single day range", "Vacation", 1200, start, start, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewGoal(tt.title, tt.target, tt.start, tt.end)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateNewGoal() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReminderTime(t *testing.T) {
	tests := []struct {
		tod     string
		wantErr bool
	}{
		{"09:00", false},
		{"23:59", false},
		{"00:00", false},
		{"24:00", true},
		{"9:00", true},
		{"09:60", true},
		{"", true},
		{"morning", true},
	}

	for _, tt := range tests {
		t.Run(tt.tod, func(t *testing.T) {
			err := ValidateReminderTime(tt.tod)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateReminderTime(%q) = %v, wantErr %v", tt.tod, err, tt.wantErr)
			}
		})
	}
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		want    float64
	}{
		{"untouched", 0, 100, 0},
		{"halfway", 50, 100, 0.5},
		{"exact", 100, 100, 1},
		{"overfunded clamps", 150, 100, 1},
		{"zero target", 50, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{CurrentAmount: tt.current, TargetAmount: tt.target}
			if got := g.Progress(); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoalRemaining(t *testing.T) {
	g := Goal{TargetAmount: 100, CurrentAmount: 30}
	if got := g.Remaining(); got != 70 {
		t.Errorf("Remaining() = %v, want 70", got)
	}

	over := Goal{TargetAmount: 100, CurrentAmount: 130}
	if got := over.Remaining(); got != 0 {
		t.Errorf("Remaining() overfunded = %v, want 0", got)
	}
}

func TestDepositValidate(t *testing.T) {
	if err := (Deposit{Amount: 10}).Validate(); err != nil {
		t.Errorf("Validate() positive amount = %v, want nil", err)
	}
	if err := (Deposit{Amount: 0}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Validate() zero amount = %v, want ErrInvalidAmount", err)
	}
	if err := (Deposit{Amount: -5}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Validate() negative amount = %v, want ErrInvalidAmount", err)
	}
}
