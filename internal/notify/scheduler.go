// Package notify turns per-goal reminder times into recurring daily
// notifications. Delivery is behind the Notifier interface; the default
// implementation only logs, matching the scope of this service.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Notifier delivers one reminder for one goal.
type Notifier interface {
	Notify(ctx context.Context, goalID uuid.UUID, title string)
}

// LogNotifier emits the reminder as a structured log line.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, goalID uuid.UUID, title string) {
	slog.InfoContext(ctx, "Daily saving reminder",
		"goal_id", goalID,
		"title", title,
		"message", fmt.Sprintf("Don't forget to add your daily deposit for %s", title))
}

// Scheduler keeps one cron entry per goal, firing daily at the goal's
// reminder time. Scheduling the same goal again replaces its entry.
type Scheduler struct {
	cron     *cron.Cron
	notifier Notifier

	mu      sync.Mutex
	entries map[uuid.UUID]cron.EntryID
}

func NewScheduler(notifier Notifier) *Scheduler {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		notifier: notifier,
		entries:  make(map[uuid.UUID]cron.EntryID),
	}
}

// Start begins firing entries. Safe to call before any Schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Schedule registers (or replaces) the goal's daily reminder at the given
// "HH:MM" wall-clock time.
func (s *Scheduler) Schedule(ctx context.Context, goalID uuid.UUID, title, timeOfDay string) error {
	tod, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return fmt.Errorf("parse reminder time %q: %w", timeOfDay, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[goalID]; ok {
		s.cron.Remove(old)
	}

	spec := fmt.Sprintf("0 %d %d * * *", tod.Minute(), tod.Hour())
	id, err := s.cron.AddFunc(spec, func() {
		s.notifier.Notify(context.Background(), goalID, title)
	})
	if err != nil {
		return fmt.Errorf("register reminder: %w", err)
	}
	s.entries[goalID] = id

	slog.InfoContext(ctx, "Reminder scheduled",
		"goal_id", goalID,
		"time_of_day", timeOfDay)
	return nil
}

// Cancel removes the goal's reminder. Unknown goal ids are a no-op: cancel
// events can arrive after a restart wiped the entry.
func (s *Scheduler) Cancel(ctx context.Context, goalID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[goalID]
	if !ok {
		slog.DebugContext(ctx, "No reminder entry to cancel", "goal_id", goalID)
		return
	}
	s.cron.Remove(id)
	delete(s.entries, goalID)

	slog.InfoContext(ctx, "Reminder cancelled", "goal_id", goalID)
}

// Scheduled returns the number of active entries, for readiness reporting.
func (s *Scheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
