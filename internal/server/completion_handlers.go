package server

import (
	"net/http"
	"strconv"

	"task-tracker/internal/service"
)

type markCompleteRequest struct {
	TaskID        uint   `json:"task_id"`
	CompletedDate string `json:"completed_date"`
	Note          string `json:"note"`
}

type markCompleteResponse struct {
	Created    bool              `json:"created"`
	Completion completionPayload `json:"completion"`
}

func (s *Server) handleMarkComplete(w http.ResponseWriter, r *http.Request) {
	var req markCompleteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.TaskID == 0 {
		s.writeError(w, &service.ValidationError{Field: "task_id", Message: "task_id is required"})
		return
	}

	completion, created, err := s.completions.MarkComplete(r.Context(), userFrom(r), req.TaskID, req.CompletedDate, req.Note)
	if err != nil {
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, markCompleteResponse{
		Created:    created,
		Completion: toCompletionPayload(*completion),
	})
}

func (s *Server) handleListCompletions(w http.ResponseWriter, r *http.Request) {
	var taskID *uint
	if raw := r.URL.Query().Get("task_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			s.writeError(w, &service.ValidationError{Field: "task_id", Message: "task_id must be an integer"})
			return
		}
		v := uint(id)
		taskID = &v
	}

	completions, err := s.completions.List(r.Context(), userFrom(r), taskID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompletionPayloads(completions))
}

func (s *Server) handleCheckCompletion(w http.ResponseWriter, r *http.Request) {
	taskID, err := queryTaskID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	date := r.URL.Query().Get("date")
	completed, err := s.completions.IsCompletedOn(r.Context(), userFrom(r), taskID, date)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"task_id":   taskID,
		"completed": completed,
	})
}

func (s *Server) handleCompletionHistory(w http.ResponseWriter, r *http.Request) {
	taskID, err := queryTaskID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, &service.ValidationError{Field: "days", Message: "days must be a positive integer"})
			return
		}
		days = n
	}

	completions, err := s.completions.History(r.Context(), userFrom(r), taskID, days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompletionPayloads(completions))
}

func (s *Server) handleWeeklyStats(w http.ResponseWriter, r *http.Request) {
	taskID, err := queryTaskID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	stats, err := s.completions.WeeklyStats(r.Context(), userFrom(r), taskID, r.URL.Query().Get("start_date"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	taskID, err := queryTaskID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	year, err := intQuery(r, "year")
	if err != nil {
		s.writeError(w, err)
		return
	}
	month, err := intQuery(r, "month")
	if err != nil {
		s.writeError(w, err)
		return
	}

	stats, err := s.completions.MonthlyStats(r.Context(), userFrom(r), taskID, year, month)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	taskID, err := queryTaskID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	streak, err := s.completions.Streak(r.Context(), userFrom(r), taskID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"task_id": taskID,
		"streak":  streak,
	})
}

func (s *Server) handleUndoCompletion(w http.ResponseWriter, r *http.Request) {
	completionID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.completions.Undo(r.Context(), userFrom(r), completionID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryTaskID(r *http.Request) (uint, error) {
	raw := r.URL.Query().Get("task_id")
	if raw == "" {
		return 0, &service.ValidationError{Field: "task_id", Message: "task_id is required"}
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, &service.ValidationError{Field: "task_id", Message: "task_id must be an integer"}
	}
	return uint(id), nil
}

// intQuery parses an optional integer query param, zero when absent.
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.ValidationError{Field: name, Message: name + " must be an integer"}
	}
	return n, nil
}
