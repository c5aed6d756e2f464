package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cashsaver/internal/amqp"
	"cashsaver/internal/calendar"
	"cashsaver/internal/core"
	"cashsaver/internal/ledger"
	"cashsaver/internal/stats"
)

// GoalService orchestrates ledger mutations with reminder event publishing.
// The ledger is the source of truth; a dead event bus degrades reminders,
// never goal data.
type GoalService struct {
	ledger *ledger.Ledger
	bus    *ReminderBus
}

func NewGoalService(l *ledger.Ledger, bus *ReminderBus) *GoalService {
	if bus == nil {
		bus = NewReminderBus(nil)
	}
	return &GoalService{ledger: l, bus: bus}
}

// CreateGoal creates the goal and, when reminders are enabled, publishes the
// schedule event for the worker. Publish failures are logged and swallowed:
// the goal exists either way and the worker resyncs from storage on startup.
func (s *GoalService) CreateGoal(ctx context.Context, ng ledger.NewGoal) (core.Goal, error) {
	g, err := s.ledger.CreateGoal(ctx, ng)
	if err != nil {
		return core.Goal{}, err
	}

	if g.ReminderEnabled {
		if err := s.bus.Schedule(ctx, g.ID, g.Title, g.ReminderTime); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reminder schedule",
				"goal_id", g.ID, "error", err)
		}
	}

	return g, nil
}

func (s *GoalService) AddDeposit(ctx context.Context, goalID uuid.UUID, amount float64, note string, at time.Time) (core.Deposit, error) {
	return s.ledger.AddDeposit(ctx, goalID, amount, note, at)
}

func (s *GoalService) RemoveDeposit(ctx context.Context, goalID, depositID uuid.UUID) error {
	return s.ledger.RemoveDeposit(ctx, goalID, depositID)
}

// DeleteGoal removes the goal; the ledger itself tells the reminder
// collaborator to cancel.
func (s *GoalService) DeleteGoal(ctx context.Context, goalID uuid.UUID) error {
	return s.ledger.DeleteGoal(ctx, goalID)
}

func (s *GoalService) Goal(goalID uuid.UUID) (core.Goal, error) {
	return s.ledger.Goal(goalID)
}

func (s *GoalService) Goals() []core.Goal {
	return s.ledger.Goals()
}

func (s *GoalService) Deposits(goalID uuid.UUID) ([]core.Deposit, error) {
	return s.ledger.Deposits(goalID)
}

// Statistics reduces the current goal set into summary totals.
func (s *GoalService) Statistics() core.Totals {
	return stats.Aggregate(s.ledger.Goals())
}

// CalendarMonth classifies every day of the month containing ref for one
// goal.
func (s *GoalService) CalendarMonth(goalID uuid.UUID, ref time.Time) ([]calendar.DayStatus, error) {
	g, err := s.ledger.Goal(goalID)
	if err != nil {
		return nil, err
	}
	deposits, err := s.ledger.Deposits(goalID)
	if err != nil {
		return nil, err
	}
	return calendar.MonthStatuses(g, deposits, ref), nil
}

// DayDetail returns the required amount, deposited sum and status for a
// single day, the figures behind the day drill-down view.
func (s *GoalService) DayDetail(goalID uuid.UUID, day time.Time) (required, deposited float64, status core.DayStatus, err error) {
	g, err := s.ledger.Goal(goalID)
	if err != nil {
		return 0, 0, "", err
	}
	deposits, err := s.ledger.Deposits(goalID)
	if err != nil {
		return 0, 0, "", err
	}
	required = calendar.RequiredOn(g, day)
	deposited = calendar.DepositedOn(deposits, day)
	status = calendar.StatusFor(g, deposits, day)
	return required, deposited, status, nil
}

// ReminderBus adapts the AMQP client to the scheduling collaborator shape.
// A nil publisher runs the whole system without reminders, mirroring how the
// API keeps working when the broker is down.
type ReminderBus struct {
	publisher ReminderPublisher
}

// ReminderPublisher is satisfied by *amqp.Client.
type ReminderPublisher interface {
	PublishReminderEvent(ctx context.Context, ev *amqp.ReminderEvent) error
}

func NewReminderBus(publisher ReminderPublisher) *ReminderBus {
	return &ReminderBus{publisher: publisher}
}

func (b *ReminderBus) Schedule(ctx context.Context, goalID uuid.UUID, title, timeOfDay string) error {
	if b.publisher == nil {
		slog.WarnContext(ctx, "Reminder bus not available, skipping schedule", "goal_id", goalID)
		return nil
	}
	return b.publisher.PublishReminderEvent(ctx, amqp.NewScheduleEvent(goalID, title, timeOfDay))
}

// Cancel implements ledger.ReminderScheduler.
func (b *ReminderBus) Cancel(ctx context.Context, goalID uuid.UUID) error {
	if b.publisher == nil {
		slog.WarnContext(ctx, "Reminder bus not available, skipping cancel", "goal_id", goalID)
		return nil
	}
	return b.publisher.PublishReminderEvent(ctx, amqp.NewCancelEvent(goalID))
}
