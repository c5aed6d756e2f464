// Package http exposes the goal tracker as a JSON API.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"cashsaver/internal/bootstrap"
	"cashsaver/internal/cache"
	"cashsaver/internal/services"
)

// Server wires the goal service and the bootstrap flow behind the JSON API.
type Server struct {
	*http.Server

	svc     *services.GoalService
	flow    *bootstrap.Flow
	started time.Time

	statsCache *cache.LRUCache[statisticsResponse]
	monthCache *cache.LRUCache[[]calendarDayResponse]
}

func NewServer(addr string, svc *services.GoalService, flow *bootstrap.Flow, cacheTTL time.Duration) *Server {
	s := &Server{
		svc:        svc,
		flow:       flow,
		started:    time.Now(),
		statsCache: cache.NewLRUCache[statisticsResponse](16, cacheTTL),
		monthCache: cache.NewLRUCache[[]calendarDayResponse](256, cacheTTL),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("GET /api/goals/{id}", s.handleGetGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)

	mux.HandleFunc("POST /api/goals/{id}/deposits", s.handleAddDeposit)
	mux.HandleFunc("DELETE /api/goals/{id}/deposits/{depositID}", s.handleRemoveDeposit)

	mux.HandleFunc("GET /api/goals/{id}/calendar", s.handleCalendar)
	mux.HandleFunc("GET /api/goals/{id}/calendar/day", s.handleCalendarDay)

	mux.HandleFunc("GET /api/statistics", s.handleStatistics)
	mux.HandleFunc("GET /api/bootstrap", s.handleBootstrap)

	s.Server = &http.Server{
		Addr:    addr,
		Handler: withSecurityHeaders(withTracing(mux)),
	}
	return s
}

// CleanCaches drops expired cache entries; the cache janitor calls this
// periodically.
func (s *Server) CleanCaches() int {
	return s.statsCache.CleanExpired() + s.monthCache.CleanExpired()
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// withTracing assigns a request id and logs start and completion of every
// request with its status and duration.
func withTracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()

		slog.InfoContext(r.Context(), "HTTP request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"remote_addr", r.RemoteAddr)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		level := slog.LevelInfo
		if rw.statusCode >= 500 {
			level = slog.LevelError
		} else if rw.statusCode >= 400 {
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "HTTP request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
