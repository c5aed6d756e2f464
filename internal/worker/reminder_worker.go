package worker

import (
	"context"
	"fmt"
	"log/slog"

	"cashsaver/internal/amqp"
	"cashsaver/internal/core"
	"cashsaver/internal/notify"
)

// GoalReader exposes the stored goals the worker rebuilds its schedule from.
// Satisfied by *storage.SQLiteRepository and *storage.MemoryStore.
type GoalReader interface {
	LoadGoals(ctx context.Context) ([]core.Goal, []core.Deposit, error)
}

// ReminderWorker applies reminder events from the bus to the cron scheduler.
// The bus is best-effort, so StartupSync rebuilds the full schedule from
// storage whenever the worker starts.
type ReminderWorker struct {
	goals     GoalReader
	scheduler *notify.Scheduler
}

func NewReminderWorker(goals GoalReader, scheduler *notify.Scheduler) *ReminderWorker {
	return &ReminderWorker{
		goals:     goals,
		scheduler: scheduler,
	}
}

// HandleEvent processes a single reminder event from AMQP.
func (w *ReminderWorker) HandleEvent(ctx context.Context, ev *amqp.ReminderEvent) error {
	switch ev.Action {
	case amqp.ActionSchedule:
		if err := w.scheduler.Schedule(ctx, ev.GoalID, ev.GoalTitle, ev.TimeOfDay); err != nil {
			return fmt.Errorf("schedule reminder: %w", err)
		}
	case amqp.ActionCancel:
		w.scheduler.Cancel(ctx, ev.GoalID)
	default:
		// Validate on the consume path should have rejected this already.
		return fmt.Errorf("unknown reminder action %q", ev.Action)
	}
	return nil
}

// StartupSync registers an entry for every stored goal with reminders
// enabled. Events missed while the worker was down are covered by this pass.
func (w *ReminderWorker) StartupSync(ctx context.Context) error {
	goals, _, err := w.goals.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("load goals for startup sync: %w", err)
	}

	scheduled := 0
	for _, g := range goals {
		if !g.ReminderEnabled || g.IsCompleted {
			continue
		}
		if err := w.scheduler.Schedule(ctx, g.ID, g.Title, g.ReminderTime); err != nil {
			slog.ErrorContext(ctx, "Failed to schedule stored reminder",
				"goal_id", g.ID, "error", err)
			continue
		}
		scheduled++
	}

	slog.InfoContext(ctx, "Startup reminder sync completed",
		"goals", len(goals),
		"scheduled", scheduled)
	return nil
}
