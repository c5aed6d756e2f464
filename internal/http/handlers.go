package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"cashsaver/internal/core"
	"cashsaver/internal/ledger"
)

const dayFormat = "2006-01-02"

type createGoalRequest struct {
	Title           string  `json:"title"`
	TargetAmount    float64 `json:"target_amount"`
	StartDate       string  `json:"start_date"` // "YYYY-MM-DD"
	EndDate         string  `json:"end_date"`
	ReminderEnabled bool    `json:"reminder_enabled"`
	ReminderTime    string  `json:"reminder_time"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	startDate, err := time.ParseInLocation(dayFormat, req.StartDate, time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid start_date %q", req.StartDate)})
		return
	}
	endDate, err := time.ParseInLocation(dayFormat, req.EndDate, time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid end_date %q", req.EndDate)})
		return
	}

	g, err := s.svc.CreateGoal(r.Context(), ledger.NewGoal{
		Title:           req.Title,
		TargetAmount:    req.TargetAmount,
		StartDate:       startDate,
		EndDate:         endDate,
		ReminderEnabled: req.ReminderEnabled,
		ReminderTime:    req.ReminderTime,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateReads()
	writeJSON(w, http.StatusCreated, toGoalResponse(g))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.svc.Goals()
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	g, err := s.svc.Goal(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	deposits, err := s.svc.Deposits(goalID)
	if err != nil {
		writeError(w, err)
		return
	}
	depOut := make([]depositResponse, 0, len(deposits))
	for _, d := range deposits {
		depOut = append(depOut, toDepositResponse(d))
	}

	writeJSON(w, http.StatusOK, struct {
		goalResponse
		Deposits []depositResponse `json:"deposits"`
	}{toGoalResponse(g), depOut})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.svc.DeleteGoal(r.Context(), goalID); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateReads()
	w.WriteHeader(http.StatusNoContent)
}

type addDepositRequest struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
	Date   string  `json:"date"` // optional RFC3339; defaults to now
}

func (s *Server) handleAddDeposit(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req addDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var at time.Time
	if req.Date != "" {
		var err error
		at, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid date %q", req.Date)})
			return
		}
	}

	d, err := s.svc.AddDeposit(r.Context(), goalID, req.Amount, req.Note, at)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateReads()
	writeJSON(w, http.StatusCreated, toDepositResponse(d))
}

func (s *Server) handleRemoveDeposit(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	depositID, ok := pathUUID(w, r, "depositID")
	if !ok {
		return
	}

	if err := s.svc.RemoveDeposit(r.Context(), goalID, depositID); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateReads()
	w.WriteHeader(http.StatusNoContent)
}

type calendarDayResponse struct {
	Day    string         `json:"day"`
	Status core.DayStatus `json:"status"`
}

// handleCalendar returns per-day statuses for the month given as
// ?month=YYYY-MM (defaults to the current month).
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	ref := time.Now()
	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := time.ParseInLocation("2006-01", m, time.Local)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid month %q", m)})
			return
		}
		ref = parsed
	}

	cacheKey := goalID.String() + "/" + ref.Format("2006-01")
	if cached, hit := s.monthCache.Get(cacheKey); hit {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	days, err := s.svc.CalendarMonth(goalID, ref)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]calendarDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, calendarDayResponse{Day: d.Day.Format(dayFormat), Status: d.Status})
	}

	s.monthCache.Set(cacheKey, out)
	writeJSON(w, http.StatusOK, out)
}

type dayDetailResponse struct {
	Day       string         `json:"day"`
	Required  float64        `json:"required"`
	Deposited float64        `json:"deposited"`
	StillNeed float64        `json:"still_need"`
	Status    core.DayStatus `json:"status"`
}

// handleCalendarDay returns the drill-down figures for one day
// (?day=YYYY-MM-DD, defaults to today).
func (s *Server) handleCalendarDay(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	day := time.Now()
	if d := r.URL.Query().Get("day"); d != "" {
		parsed, err := time.ParseInLocation(dayFormat, d, time.Local)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid day %q", d)})
			return
		}
		day = parsed
	}

	required, deposited, status, err := s.svc.DayDetail(goalID, day)
	if err != nil {
		writeError(w, err)
		return
	}

	stillNeed := required - deposited
	if stillNeed < 0 {
		stillNeed = 0
	}
	writeJSON(w, http.StatusOK, dayDetailResponse{
		Day:       day.Format(dayFormat),
		Required:  required,
		Deposited: deposited,
		StillNeed: stillNeed,
		Status:    status,
	})
}

type statisticsResponse struct {
	TotalSaved     float64 `json:"total_saved"`
	TotalTarget    float64 `json:"total_target"`
	CompletedGoals int     `json:"completed_goals"`
	ActiveGoals    int     `json:"active_goals"`
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "totals"
	if cached, hit := s.statsCache.Get(cacheKey); hit {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	t := s.svc.Statistics()
	resp := statisticsResponse{
		TotalSaved:     t.TotalSaved,
		TotalTarget:    t.TotalTarget,
		CompletedGoals: t.CompletedGoals,
		ActiveGoals:    t.ActiveGoals,
	}

	s.statsCache.Set(cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	route, err := s.flow.Resolve(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]any{
		"ledger": map[string]any{
			"goals":  len(s.svc.Goals()),
			"status": "ok",
		},
		"cache": map[string]any{
			"stats_entries": s.statsCache.Size(),
			"month_entries": s.monthCache.Size(),
			"status":        "ok",
		},
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// invalidateReads drops all cached reads after a mutation so callers never
// see stale totals or day statuses.
func (s *Server) invalidateReads() {
	s.statsCache.Clear()
	s.monthCache.Clear()
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid %s %q", name, raw)})
		return uuid.Nil, false
	}
	return id, true
}
