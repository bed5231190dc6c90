package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"task-tracker/internal/service"
)

// Server is the HTTP/JSON transport in front of the services. It owns no
// business logic: handlers decode, delegate, and encode.
type Server struct {
	logger      *log.Logger
	auth        *service.AuthService
	tasks       *service.TaskService
	completions *service.CompletionService
	httpServer  *http.Server
}

func New(addr string, logger *log.Logger, auth *service.AuthService, tasks *service.TaskService, completions *service.CompletionService) *Server {
	s := &Server{
		logger:      logger,
		auth:        auth,
		tasks:       tasks,
		completions: completions,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", s.handleRefresh)
	mux.Handle("GET /api/auth/me", s.requireAuth(s.handleProfile))

	mux.Handle("GET /api/tasks", s.requireAuth(s.handleListTasks))
	mux.Handle("POST /api/tasks", s.requireAuth(s.handleCreateTask))
	mux.Handle("GET /api/tasks/today", s.requireAuth(s.handleTodayTasks))
	mux.Handle("GET /api/tasks/weekly", s.requireAuth(s.handleWeeklyTasks))
	mux.Handle("GET /api/tasks/overdue", s.requireAuth(s.handleOverdueTasks))
	mux.Handle("GET /api/tasks/archived", s.requireAuth(s.handleArchivedTasks))
	mux.Handle("GET /api/tasks/{id}", s.requireAuth(s.handleGetTask))
	mux.Handle("PUT /api/tasks/{id}", s.requireAuth(s.handleUpdateTask))
	mux.Handle("DELETE /api/tasks/{id}", s.requireAuth(s.handleDeleteTask))
	mux.Handle("POST /api/tasks/{id}/archive", s.requireAuth(s.handleArchiveTask))
	mux.Handle("POST /api/tasks/{id}/restore", s.requireAuth(s.handleRestoreTask))

	mux.Handle("GET /api/completions", s.requireAuth(s.handleListCompletions))
	mux.Handle("POST /api/completions", s.requireAuth(s.handleMarkComplete))
	mux.Handle("GET /api/completions/check", s.requireAuth(s.handleCheckCompletion))
	mux.Handle("GET /api/completions/history", s.requireAuth(s.handleCompletionHistory))
	mux.Handle("GET /api/completions/weekly_stats", s.requireAuth(s.handleWeeklyStats))
	mux.Handle("GET /api/completions/monthly_stats", s.requireAuth(s.handleMonthlyStats))
	mux.Handle("GET /api/completions/streak", s.requireAuth(s.handleStreak))
	mux.Handle("DELETE /api/completions/{id}", s.requireAuth(s.handleUndoCompletion))

	return s.withRequestLog(mux)
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
