package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cashsaver/internal/core"
)

// Ledger is the single source of truth for goal balances and pacing figures.
// All mutations are serialized behind one mutex and hit the store before they
// touch memory, so concurrent readers never observe a half-applied mutation
// and a failed commit leaves memory exactly as it was.
type Ledger struct {
	mu        sync.Mutex
	store     Store
	reminders ReminderScheduler
	now       func() time.Time

	initial AllocationRule
	ongoing AllocationRule

	goals   map[uuid.UUID]*goalState
	ownerOf map[uuid.UUID]uuid.UUID // deposit id -> goal id
}

type goalState struct {
	goal     core.Goal
	deposits map[uuid.UUID]core.Deposit
}

// NewGoal carries the caller-supplied fields of a goal to be created.
type NewGoal struct {
	Title           string
	TargetAmount    float64
	StartDate       time.Time
	EndDate         time.Time
	ReminderEnabled bool
	ReminderTime    string
}

// New builds a ledger over the given store and reminder collaborator. A nil
// now falls back to time.Now; tests inject a fixed clock.
func New(store Store, reminders ReminderScheduler, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		store:     store,
		reminders: reminders,
		now:       now,
		initial:   InitialAllocation{},
		ongoing:   OngoingAllocation{},
		goals:     make(map[uuid.UUID]*goalState),
		ownerOf:   make(map[uuid.UUID]uuid.UUID),
	}
}

// Warm loads all persisted goals and deposits into memory. Call once at
// startup before serving.
func (l *Ledger) Warm(ctx context.Context) error {
	goals, deposits, err := l.store.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.goals = make(map[uuid.UUID]*goalState, len(goals))
	l.ownerOf = make(map[uuid.UUID]uuid.UUID, len(deposits))
	for _, g := range goals {
		l.goals[g.ID] = &goalState{goal: g, deposits: make(map[uuid.UUID]core.Deposit)}
	}
	for _, d := range deposits {
		st, ok := l.goals[d.GoalID]
		if !ok {
			slog.WarnContext(ctx, "Skipping orphaned deposit", "deposit_id", d.ID, "goal_id", d.GoalID)
			continue
		}
		st.deposits[d.ID] = d
		l.ownerOf[d.ID] = d.GoalID
	}

	slog.InfoContext(ctx, "Ledger warmed", "goals", len(goals), "deposits", len(deposits))
	return nil
}

// CreateGoal validates the input, derives the initial pacing figure and
// persists the goal. The reminder collaborator is NOT scheduled here; the
// creation flow does that after a successful return.
func (l *Ledger) CreateGoal(ctx context.Context, ng NewGoal) (core.Goal, error) {
	if err := core.ValidateNewGoal(ng.Title, ng.TargetAmount, ng.StartDate, ng.EndDate); err != nil {
		return core.Goal{}, err
	}
	if ng.ReminderEnabled {
		if err := core.ValidateReminderTime(ng.ReminderTime); err != nil {
			return core.Goal{}, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	g := core.Goal{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(ng.Title),
		TargetAmount:    ng.TargetAmount,
		CurrentAmount:   0,
		StartDate:       ng.StartDate,
		EndDate:         ng.EndDate,
		IsCompleted:     false,
		CreatedAt:       now,
		ReminderEnabled: ng.ReminderEnabled,
		ReminderTime:    ng.ReminderTime,
	}
	l.recompute(&g, l.initial, now)

	if err := l.store.SaveGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("persist goal: %w", err)
	}

	l.goals[g.ID] = &goalState{goal: g, deposits: make(map[uuid.UUID]core.Deposit)}

	slog.InfoContext(ctx, "Goal created",
		"goal_id", g.ID,
		"title", g.Title,
		"target", g.TargetAmount,
		"daily_amount", g.DailyAmount)
	return g, nil
}

// AddDeposit appends a deposit to the goal and re-derives its balance,
// completion flag and pacing figure. A zero at defaults to the current
// moment.
func (l *Ledger) AddDeposit(ctx context.Context, goalID uuid.UUID, amount float64, note string, at time.Time) (core.Deposit, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.goals[goalID]
	if !ok {
		return core.Deposit{}, ErrGoalNotFound
	}

	now := l.now()
	if at.IsZero() {
		at = now
	}
	d := core.Deposit{
		ID:     uuid.New(),
		GoalID: goalID,
		Amount: amount,
		Date:   at,
		Note:   note,
	}
	if err := d.Validate(); err != nil {
		return core.Deposit{}, err
	}

	updated := st.goal
	updated.CurrentAmount += d.Amount
	l.recompute(&updated, l.ongoing, now)

	if err := l.store.InsertDeposit(ctx, d, updated); err != nil {
		return core.Deposit{}, fmt.Errorf("persist deposit: %w", err)
	}

	st.goal = updated
	st.deposits[d.ID] = d
	l.ownerOf[d.ID] = goalID

	slog.InfoContext(ctx, "Deposit added",
		"goal_id", goalID,
		"deposit_id", d.ID,
		"amount", d.Amount,
		"current", updated.CurrentAmount,
		"completed", updated.IsCompleted)
	return d, nil
}

// RemoveDeposit deletes the deposit and re-derives the goal's balance,
// completion flag and pacing figure. A completed goal drops back to active
// when the remaining sum falls below target.
func (l *Ledger) RemoveDeposit(ctx context.Context, goalID, depositID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.goals[goalID]
	if !ok {
		return ErrGoalNotFound
	}
	d, ok := st.deposits[depositID]
	if !ok {
		return ErrDepositNotFound
	}

	now := l.now()
	updated := st.goal
	updated.CurrentAmount -= d.Amount
	if updated.CurrentAmount < 0 {
		// Cannot happen while the balance invariant holds, but never let a
		// negative balance escape.
		updated.CurrentAmount = 0
	}
	l.recompute(&updated, l.ongoing, now)

	if err := l.store.DeleteDeposit(ctx, depositID, updated); err != nil {
		return fmt.Errorf("delete deposit: %w", err)
	}

	st.goal = updated
	delete(st.deposits, depositID)
	delete(l.ownerOf, depositID)

	slog.InfoContext(ctx, "Deposit removed",
		"goal_id", goalID,
		"deposit_id", depositID,
		"amount", d.Amount,
		"current", updated.CurrentAmount,
		"completed", updated.IsCompleted)
	return nil
}

// DeleteGoal removes the goal and all its deposits, then asks the reminder
// collaborator to cancel any pending schedule. A cancel failure is logged and
// swallowed: the goal data is already gone and the worker drops unknown goal
// ids on its own.
func (l *Ledger) DeleteGoal(ctx context.Context, goalID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.goals[goalID]
	if !ok {
		return ErrGoalNotFound
	}

	if err := l.store.DeleteGoal(ctx, goalID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	for id := range st.deposits {
		delete(l.ownerOf, id)
	}
	delete(l.goals, goalID)

	if l.reminders != nil {
		if err := l.reminders.Cancel(ctx, goalID); err != nil {
			slog.WarnContext(ctx, "Failed to cancel reminder", "goal_id", goalID, "error", err)
		}
	}

	slog.InfoContext(ctx, "Goal deleted", "goal_id", goalID, "deposits", len(st.deposits))
	return nil
}

// Goal returns a snapshot of one goal.
func (l *Ledger) Goal(goalID uuid.UUID) (core.Goal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.goals[goalID]
	if !ok {
		return core.Goal{}, ErrGoalNotFound
	}
	return st.goal, nil
}

// Goals returns a snapshot of all goals, newest first.
func (l *Ledger) Goals() []core.Goal {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]core.Goal, 0, len(l.goals))
	for _, st := range l.goals {
		out = append(out, st.goal)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Deposits returns a snapshot of the goal's deposits, newest first.
func (l *Ledger) Deposits(goalID uuid.UUID) ([]core.Deposit, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.goals[goalID]
	if !ok {
		return nil, ErrGoalNotFound
	}
	out := make([]core.Deposit, 0, len(st.deposits))
	for _, d := range st.deposits {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// recompute re-derives IsCompleted and DailyAmount from CurrentAmount. It is
// the only place those fields are written after construction: every mutating
// operation ends here, never at a call site's discretion.
func (l *Ledger) recompute(g *core.Goal, rule AllocationRule, now time.Time) {
	g.IsCompleted = g.CurrentAmount >= g.TargetAmount
	if g.IsCompleted {
		g.DailyAmount = 0
		return
	}
	daily := rule.DailyAmount(*g, now)
	if daily < 0 {
		daily = 0
	}
	g.DailyAmount = daily
}
