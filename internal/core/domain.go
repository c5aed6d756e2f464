package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	// Goal is a tracked savings objective with a target amount and a deadline.
	// CurrentAmount, DailyAmount and IsCompleted are derived by the ledger and
	// must never be written by anyone else.
	Goal struct {
		ID            uuid.UUID
		Title         string
		TargetAmount  float64
		CurrentAmount float64
		StartDate     time.Time
		EndDate       time.Time
		DailyAmount   float64
		IsCompleted   bool
		CreatedAt     time.Time

		// Scheduling hint for the reminder collaborator, not part of the
		// accounting logic.
		ReminderEnabled bool
		ReminderTime    string // "HH:MM", empty when ReminderEnabled is false
	}

	// Deposit is a single recorded contribution toward a goal. Deposits are
	// created and destroyed, never mutated in place.
	Deposit struct {
		ID     uuid.UUID
		GoalID uuid.UUID
		Amount float64
		Date   time.Time
		Note   string
	}

	// Totals is the reduction of the full goal set used by the statistics
	// screen.
	Totals struct {
		TotalSaved     float64
		TotalTarget    float64
		CompletedGoals int
		ActiveGoals    int
	}
)

// DayStatus classifies a calendar day for a goal.
type DayStatus string

const (
	StatusCompleted     DayStatus = "completed"
	StatusIncomplete    DayStatus = "incomplete"
	StatusNotApplicable DayStatus = "not_applicable"
)

var (
	ErrEmptyTitle       = errors.New("empty goal title")
	ErrInvalidTarget    = errors.New("target amount must be positive")
	ErrInvalidAmount    = errors.New("deposit amount must be positive")
	ErrInvalidDateRange = errors.New("end date before start date")
	ErrInvalidReminder  = errors.New("invalid reminder time")
)

// ValidateNewGoal checks the caller-supplied fields of a goal before the
// ledger accepts it. Derived fields are not inspected.
func ValidateNewGoal(title string, targetAmount float64, startDate, endDate time.Time) error {
	if len(strings.TrimSpace(title)) == 0 {
		return ErrEmptyTitle
	}
	if targetAmount <= 0 {
		return ErrInvalidTarget
	}
	if endDate.Before(startDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// ValidateReminderTime checks an "HH:MM" wall-clock time of day.
func ValidateReminderTime(tod string) error {
	if _, err := time.Parse("15:04", tod); err != nil {
		return ErrInvalidReminder
	}
	return nil
}

// Progress returns the goal's completion ratio clamped to [0, 1].
func (g Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount
	if p > 1 {
		return 1
	}
	return p
}

// Remaining returns the amount still to be saved, never negative.
func (g Goal) Remaining() float64 {
	r := g.TargetAmount - g.CurrentAmount
	if r < 0 {
		return 0
	}
	return r
}

func (d Deposit) Validate() error {
	if d.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
