package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"cashsaver/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable backing for the ledger plus the settings
// key/value table used by the bootstrap flow. It implements ledger.Store and
// bootstrap.SettingsStore.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveGoal implements ledger.Store. Upsert so recomputed derived fields on an
// existing goal land in the same statement.
func (r *SQLiteRepository) SaveGoal(ctx context.Context, g core.Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, title, target_amount, current_amount, start_date, end_date,
			daily_amount, is_completed, created_at, reminder_enabled, reminder_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			target_amount = excluded.target_amount,
			current_amount = excluded.current_amount,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			daily_amount = excluded.daily_amount,
			is_completed = excluded.is_completed,
			reminder_enabled = excluded.reminder_enabled,
			reminder_time = excluded.reminder_time`,
		g.ID.String(), g.Title, g.TargetAmount, g.CurrentAmount, g.StartDate, g.EndDate,
		g.DailyAmount, g.IsCompleted, g.CreatedAt, g.ReminderEnabled, g.ReminderTime)
	if err != nil {
		return fmt.Errorf("save goal: %w", err)
	}

	slog.DebugContext(ctx, "Goal saved", "goal_id", g.ID, "current", g.CurrentAmount)
	return nil
}

// InsertDeposit implements ledger.Store. The deposit row and the owning
// goal's recomputed balance commit as one transaction or not at all.
func (r *SQLiteRepository) InsertDeposit(ctx context.Context, d core.Deposit, updated core.Goal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO deposits (id, goal_id, amount, date, note) VALUES (?, ?, ?, ?, ?)`,
		d.ID.String(), d.GoalID.String(), d.Amount, d.Date, d.Note)
	if err != nil {
		return fmt.Errorf("insert deposit: %w", err)
	}

	if err := updateGoalBalance(ctx, tx, updated); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deposit: %w", err)
	}
	return nil
}

// DeleteDeposit implements ledger.Store.
func (r *SQLiteRepository) DeleteDeposit(ctx context.Context, depositID uuid.UUID, updated core.Goal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM deposits WHERE id = ?`, depositID.String())
	if err != nil {
		return fmt.Errorf("delete deposit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete deposit %s: no such row", depositID)
	}

	if err := updateGoalBalance(ctx, tx, updated); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deposit delete: %w", err)
	}
	return nil
}

// DeleteGoal implements ledger.Store. Deposits are removed explicitly rather
// than trusting the foreign-key pragma on every connection.
func (r *SQLiteRepository) DeleteGoal(ctx context.Context, goalID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM deposits WHERE goal_id = ?`, goalID.String()); err != nil {
		return fmt.Errorf("delete goal deposits: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, goalID.String()); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit goal delete: %w", err)
	}
	return nil
}

// LoadGoals implements ledger.Store.
func (r *SQLiteRepository) LoadGoals(ctx context.Context) ([]core.Goal, []core.Deposit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, target_amount, current_amount, start_date, end_date,
			daily_amount, is_completed, created_at, reminder_enabled, reminder_time
		FROM goals ORDER BY created_at DESC`)
	if err != nil {
		return nil, nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var (
			g  core.Goal
			id string
		)
		if err := rows.Scan(&id, &g.Title, &g.TargetAmount, &g.CurrentAmount, &g.StartDate,
			&g.EndDate, &g.DailyAmount, &g.IsCompleted, &g.CreatedAt,
			&g.ReminderEnabled, &g.ReminderTime); err != nil {
			return nil, nil, fmt.Errorf("scan goal: %w", err)
		}
		g.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, nil, fmt.Errorf("parse goal id %q: %w", id, err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate goals: %w", err)
	}

	deposits, err := r.loadDeposits(ctx)
	if err != nil {
		return nil, nil, err
	}
	return goals, deposits, nil
}

func (r *SQLiteRepository) loadDeposits(ctx context.Context) ([]core.Deposit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, goal_id, amount, date, note FROM deposits ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query deposits: %w", err)
	}
	defer rows.Close()

	var deposits []core.Deposit
	for rows.Next() {
		var (
			d          core.Deposit
			id, goalID string
		)
		if err := rows.Scan(&id, &goalID, &d.Amount, &d.Date, &d.Note); err != nil {
			return nil, fmt.Errorf("scan deposit: %w", err)
		}
		if d.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse deposit id %q: %w", id, err)
		}
		if d.GoalID, err = uuid.Parse(goalID); err != nil {
			return nil, fmt.Errorf("parse deposit goal id %q: %w", goalID, err)
		}
		deposits = append(deposits, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deposits: %w", err)
	}
	return deposits, nil
}

func updateGoalBalance(ctx context.Context, tx *sql.Tx, g core.Goal) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE goals SET current_amount = ?, daily_amount = ?, is_completed = ?
		WHERE id = ?`,
		g.CurrentAmount, g.DailyAmount, g.IsCompleted, g.ID.String())
	if err != nil {
		return fmt.Errorf("update goal balance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update goal balance %s: no such goal", g.ID)
	}
	return nil
}

// SetSetting stores one key/value pair, used by the bootstrap flow for the
// activation token and link.
func (r *SQLiteRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now())
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// GetSetting returns the stored value and whether the key exists.
func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}
