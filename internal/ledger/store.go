package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"cashsaver/internal/core"
)

var (
	ErrGoalNotFound    = errors.New("goal not found")
	ErrDepositNotFound = errors.New("deposit not found")
)

// Store is the durable side of the ledger. Every method is one transaction:
// it either commits completely or leaves the database untouched. The ledger
// applies a mutation to its in-memory state only after the corresponding
// store call has returned nil, so memory never gets ahead of disk.
type Store interface {
	// SaveGoal inserts or updates a goal row with its derived fields.
	SaveGoal(ctx context.Context, g core.Goal) error
	// InsertDeposit writes the deposit and the owning goal's recomputed
	// balance fields in a single transaction.
	InsertDeposit(ctx context.Context, d core.Deposit, updated core.Goal) error
	// DeleteDeposit removes the deposit and writes the owning goal's
	// recomputed balance fields in a single transaction.
	DeleteDeposit(ctx context.Context, depositID uuid.UUID, updated core.Goal) error
	// DeleteGoal removes the goal and cascades its deposits.
	DeleteGoal(ctx context.Context, goalID uuid.UUID) error
	// LoadGoals returns all goals with their deposits, used to warm the
	// ledger at startup.
	LoadGoals(ctx context.Context) ([]core.Goal, []core.Deposit, error)
}

// ReminderScheduler is the external notification collaborator. The ledger
// only ever cancels: scheduling after a successful creation is the calling
// flow's job.
type ReminderScheduler interface {
	Cancel(ctx context.Context, goalID uuid.UUID) error
}
