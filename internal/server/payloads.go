package server

import (
	"time"

	"task-tracker/internal/model"
)

type userPayload struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type taskPayload struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Type             string     `json:"task_type"`
	Priority         string     `json:"priority"`
	Status           string     `json:"status"`
	RepeatDays       string     `json:"repeat_days"`
	StartDate        *string    `json:"start_date"`
	EndDate          *string    `json:"end_date"`
	DueDate          *string    `json:"due_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ArchivedAt       *time.Time `json:"archived_at"`
	IsCompletedToday bool       `json:"is_completed_today"`
}

type completionPayload struct {
	ID            uint      `json:"id"`
	TaskID        uint      `json:"task_id"`
	TaskTitle     string    `json:"task_title,omitempty"`
	TaskType      string    `json:"task_type,omitempty"`
	CompletedDate string    `json:"completed_date"`
	CompletedTime string    `json:"completed_time"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"created_at"`
}

func toUserPayload(user *model.User) userPayload {
	return userPayload{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func toTaskPayload(task model.Task, completedToday bool) taskPayload {
	return taskPayload{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		Type:             string(task.Type),
		Priority:         string(task.Priority),
		Status:           string(task.Status),
		RepeatDays:       task.RepeatDays,
		StartDate:        dateString(task.StartDate),
		EndDate:          dateString(task.EndDate),
		DueDate:          dateString(task.DueDate),
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
		ArchivedAt:       task.ArchivedAt,
		IsCompletedToday: completedToday,
	}
}

func toCompletionPayload(c model.Completion) completionPayload {
	return completionPayload{
		ID:            c.ID,
		TaskID:        c.TaskID,
		TaskTitle:     c.Task.Title,
		TaskType:      string(c.Task.Type),
		CompletedDate: c.CompletedDate.Format("2006-01-02"),
		CompletedTime: c.CompletedTime.Format("15:04:05"),
		Note:          c.Note,
		CreatedAt:     c.CreatedAt,
	}
}

func toCompletionPayloads(completions []model.Completion) []completionPayload {
	out := make([]completionPayload, 0, len(completions))
	for _, c := range completions {
		out = append(out, toCompletionPayload(c))
	}
	return out
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
