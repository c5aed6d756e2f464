package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"cashsaver/internal/amqp"
	"cashsaver/internal/core"
	"cashsaver/internal/ledger"
	"cashsaver/internal/storage"
)

type capturingPublisher struct {
	events []*amqp.ReminderEvent
	err    error
}

func (p *capturingPublisher) PublishReminderEvent(_ context.Context, ev *amqp.ReminderEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(pub ReminderPublisher, now time.Time) *GoalService {
	bus := NewReminderBus(pub)
	led := ledger.New(storage.NewMemoryStore(), bus, func() time.Time { return now })
	return NewGoalService(led, bus)
}

func TestCreateGoalPublishesScheduleEvent(t *testing.T) {
	pub := &capturingPublisher{}
	svc := newTestService(pub, day(2024, time.June, 1))

	g, err := svc.CreateGoal(context.Background(), ledger.NewGoal{
		Title:           "Vacation",
		TargetAmount:    1200,
		StartDate:       day(2024, time.June, 1),
		EndDate:         day(2024, time.July, 1),
		ReminderEnabled: true,
		ReminderTime:    "09:00",
	})
	if err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published events = %d, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Action != amqp.ActionSchedule {
		t.Errorf("Action = %q, want %q", ev.Action, amqp.ActionSchedule)
	}
	if ev.GoalID != g.ID {
		t.Errorf("GoalID = %v, want %v", ev.GoalID, g.ID)
	}
	if ev.TimeOfDay != "09:00" {
		t.Errorf("TimeOfDay = %q, want %q", ev.TimeOfDay, "09:00")
	}
	if ev.GoalTitle != "Vacation" {
		t.Errorf("GoalTitle = %q, want %q", ev.GoalTitle, "Vacation")
	}
}

func TestCreateGoalWithoutReminderPublishesNothing(t *testing.T) {
	pub := &capturingPublisher{}
	svc := newTestService(pub, day(2024, time.June, 1))

	if _, err := svc.CreateGoal(context.Background(), ledger.NewGoal{
		Title:        "Vacation",
		TargetAmount: 1200,
		StartDate:    day(2024, time.June, 1),
		EndDate:      day(2024, time.July, 1),
	}); err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("published events = %d, want 0", len(pub.events))
	}
}

func TestCreateGoalSurvivesPublishFailure(t *testing.T) {
	pub := &capturingPublisher{err: errors.New("broker down")}
	svc := newTestService(pub, day(2024, time.June, 1))

	g, err := svc.CreateGoal(context.Background(), ledger.NewGoal{
		Title:           "Vacation",
		TargetAmount:    1200,
		StartDate:       day(2024, time.June, 1),
		EndDate:         day(2024, time.July, 1),
		ReminderEnabled: true,
		ReminderTime:    "09:00",
	})
	if err != nil {
		t.Fatalf("CreateGoal() must not surface publish failures, got %v", err)
	}
	if _, err := svc.Goal(g.ID); err != nil {
		t.Errorf("goal must exist despite publish failure: %v", err)
	}
}

func TestDeleteGoalPublishesCancelEvent(t *testing.T) {
	pub := &capturingPublisher{}
	svc := newTestService(pub, day(2024, time.June, 1))

	g, err := svc.CreateGoal(context.Background(), ledger.NewGoal{
		Title:        "Vacation",
		TargetAmount: 1200,
		StartDate:    day(2024, time.June, 1),
		EndDate:      day(2024, time.July, 1),
	})
	if err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}

	if err := svc.DeleteGoal(context.Background(), g.ID); err != nil {
		t.Fatalf("DeleteGoal() error = %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published events = %d, want 1", len(pub.events))
	}
	if pub.events[0].Action != amqp.ActionCancel {
		t.Errorf("Action = %q, want %q", pub.events[0].Action, amqp.ActionCancel)
	}
}

func TestNilBusDisablesReminders(t *testing.T) {
	svc := newTestService(nil, day(2024, time.June, 1))

	if _, err := svc.CreateGoal(context.Background(), ledger.NewGoal{
		Title:           "Vacation",
		TargetAmount:    1200,
		StartDate:       day(2024, time.June, 1),
		EndDate:         day(2024, time.July, 1),
		ReminderEnabled: true,
		ReminderTime:    "09:00",
	}); err != nil {
		t.Errorf("CreateGoal() without a bus = %v, want nil", err)
	}
}

func TestStatistics(t *testing.T) {
	svc := newTestService(nil, day(2024, time.June, 1))
	ctx := context.Background()

	a, err := svc.CreateGoal(ctx, ledger.NewGoal{
		Title: "A", TargetAmount: 100,
		StartDate: day(2024, time.June, 1), EndDate: day(2024, time.July, 1),
	})
	if err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}
	if _, err := svc.CreateGoal(ctx, ledger.NewGoal{
		Title: "B", TargetAmount: 200,
		StartDate: day(2024, time.June, 1), EndDate: day(2024, time.July, 1),
	}); err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}
	if _, err := svc.AddDeposit(ctx, a.ID, 100, "", time.Time{}); err != nil {
		t.Fatalf("AddDeposit() error = %v", err)
	}

	got := svc.Statistics()
	want := core.Totals{TotalSaved: 100, TotalTarget: 300, CompletedGoals: 1, ActiveGoals: 1}
	if got != want {
		t.Errorf("Statistics() = %+v, want %+v", got, want)
	}
}

func TestDayDetail(t *testing.T) {
	now := day(2024, time.June, 10)
	svc := newTestService(nil, now)
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, ledger.NewGoal{
		Title: "Vacation", TargetAmount: 1200,
		StartDate: day(2024, time.June, 1), EndDate: day(2024, time.July, 1),
	})
	if err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}
	if _, err := svc.AddDeposit(ctx, g.ID, 100, "", now); err != nil {
		t.Fatalf("AddDeposit() error = %v", err)
	}

	// 1100 remaining over the 21 days from June 10 to July 1.
	required, deposited, status, err := svc.DayDetail(g.ID, now)
	if err != nil {
		t.Fatalf("DayDetail() error = %v", err)
	}
	if deposited != 100 {
		t.Errorf("deposited = %v, want 100", deposited)
	}
	if required <= 0 || deposited < required {
		t.Errorf("required = %v, expected a positive figure covered by the deposit", required)
	}
	if status != core.StatusCompleted {
		t.Errorf("status = %q, want %q", status, core.StatusCompleted)
	}

	if _, _, _, err := svc.DayDetail(uuid.New(), now); !errors.Is(err, ledger.ErrGoalNotFound) {
		t.Errorf("DayDetail() unknown goal = %v, want ErrGoalNotFound", err)
	}
}

func TestCalendarMonth(t *testing.T) {
	now := day(2024, time.June, 10)
	svc := newTestService(nil, now)

	g, err := svc.CreateGoal(context.Background(), ledger.NewGoal{
		Title: "Vacation", TargetAmount: 1200,
		StartDate: day(2024, time.June, 1), EndDate: day(2024, time.July, 1),
	})
	if err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}

	days, err := svc.CalendarMonth(g.ID, now)
	if err != nil {
		t.Fatalf("CalendarMonth() error = %v", err)
	}
	if len(days) != 30 {
		t.Errorf("CalendarMonth() June = %d days, want 30", len(days))
	}

	if _, err := svc.CalendarMonth(uuid.New(), now); !errors.Is(err, ledger.ErrGoalNotFound) {
		t.Errorf("CalendarMonth() unknown goal = %v, want ErrGoalNotFound", err)
	}
}
