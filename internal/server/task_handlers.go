package server

import (
	"net/http"
	"strconv"

	"task-tracker/internal/model"
	"task-tracker/internal/service"
)

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"task_type"`
	Priority    string `json:"priority"`
	RepeatDays  string `json:"repeat_days"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	DueDate     string `json:"due_date"`
}

func (r taskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		Priority:    r.Priority,
		RepeatDays:  r.RepeatDays,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		DueDate:     r.DueDate,
	}
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListActive(r.Context(), userFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeTaskList(w, r, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	task, err := s.tasks.Create(r.Context(), userFrom(r), req.toInput())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskPayload(*task, false))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	user := userFrom(r)
	task, err := s.tasks.Get(r.Context(), user, taskID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	completed, err := s.completions.IsCompletedOn(r.Context(), user, task.ID, "")
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskPayload(*task, completed))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	task, err := s.tasks.Update(r.Context(), userFrom(r), taskID, req.toInput())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskPayload(*task, false))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.tasks.Delete(r.Context(), userFrom(r), taskID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTodayTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.Today(r.Context(), userFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeTaskList(w, r, tasks)
}

func (s *Server) handleWeeklyTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ThisWeek(r.Context(), userFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeTaskList(w, r, tasks)
}

func (s *Server) handleOverdueTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.Overdue(r.Context(), userFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeTaskList(w, r, tasks)
}

func (s *Server) handleArchivedTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListArchived(r.Context(), userFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeTaskList(w, r, tasks)
}

func (s *Server) handleArchiveTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	task, err := s.tasks.Archive(r.Context(), userFrom(r), taskID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskPayload(*task, false))
}

func (s *Server) handleRestoreTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	task, err := s.tasks.Restore(r.Context(), userFrom(r), taskID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskPayload(*task, false))
}

// writeTaskList serializes tasks with their completed-today flag filled in.
func (s *Server) writeTaskList(w http.ResponseWriter, r *http.Request, tasks []model.Task) {
	user := userFrom(r)
	payloads := make([]taskPayload, 0, len(tasks))
	for _, task := range tasks {
		completed, err := s.completions.IsCompletedOn(r.Context(), user, task.ID, "")
		if err != nil {
			s.writeError(w, err)
			return
		}
		payloads = append(payloads, toTaskPayload(task, completed))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, service.ErrNotFound
	}
	return uint(id), nil
}
