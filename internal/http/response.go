package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cashsaver/internal/core"
	"cashsaver/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses: validation failures are
// the client's fault, missing aggregates are 404, anything else (including a
// failed store commit) is a 500 the client may retry.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrInvalidTarget),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDateRange),
		errors.Is(err, core.ErrInvalidReminder):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, ledger.ErrGoalNotFound),
		errors.Is(err, ledger.ErrDepositNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

type goalResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	TargetAmount    float64 `json:"target_amount"`
	CurrentAmount   float64 `json:"current_amount"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	DailyAmount     float64 `json:"daily_amount"`
	IsCompleted     bool    `json:"is_completed"`
	Progress        float64 `json:"progress"`
	CreatedAt       string  `json:"created_at"`
	ReminderEnabled bool    `json:"reminder_enabled"`
	ReminderTime    string  `json:"reminder_time,omitempty"`
}

func toGoalResponse(g core.Goal) goalResponse {
	return goalResponse{
		ID:              g.ID.String(),
		Title:           g.Title,
		TargetAmount:    g.TargetAmount,
		CurrentAmount:   g.CurrentAmount,
		StartDate:       g.StartDate.Format("2006-01-02"),
		EndDate:         g.EndDate.Format("2006-01-02"),
		DailyAmount:     g.DailyAmount,
		IsCompleted:     g.IsCompleted,
		Progress:        g.Progress(),
		CreatedAt:       g.CreatedAt.Format(time.RFC3339),
		ReminderEnabled: g.ReminderEnabled,
		ReminderTime:    g.ReminderTime,
	}
}

type depositResponse struct {
	ID     string  `json:"id"`
	GoalID string  `json:"goal_id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Note   string  `json:"note,omitempty"`
}

func toDepositResponse(d core.Deposit) depositResponse {
	return depositResponse{
		ID:     d.ID.String(),
		GoalID: d.GoalID.String(),
		Amount: d.Amount,
		Date:   d.Date.Format(time.RFC3339),
		Note:   d.Note,
	}
}
