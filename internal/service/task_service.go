package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

const dateLayout = "2006-01-02"

// TaskInput carries data for creating or updating a task. Dates come in as
// YYYY-MM-DD strings so the service can report a named field on bad input.
type TaskInput struct {
	Title       string
	Description string
	Type        string
	Priority    string
	RepeatDays  string
	StartDate   string
	EndDate     string
	DueDate     string
}

// TaskService wraps task CRUD, the archive lifecycle and the day/week
// visibility queries.
type TaskService struct {
	taskRepo *repository.TaskRepository
	now      func() time.Time
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, now: time.Now}
}

func (s *TaskService) Create(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	task, err := buildTask(input)
	if err != nil {
		return nil, err
	}
	task.UserID = user.ID

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, user *model.User, taskID uint, input TaskInput) (*model.Task, error) {
	existing, err := s.Get(ctx, user, taskID)
	if err != nil {
		return nil, err
	}

	updated, err := buildTask(input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.UserID = existing.UserID
	updated.Status = existing.Status
	updated.ArchivedAt = existing.ArchivedAt
	updated.CreatedAt = existing.CreatedAt

	if err := s.taskRepo.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TaskService) Get(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return task, err
}

func (s *TaskService) Delete(ctx context.Context, user *model.User, taskID uint) error {
	err := s.taskRepo.Delete(ctx, user.ID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *TaskService) ListActive(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.taskRepo.ListByStatus(ctx, user.ID, model.StatusActive)
}

func (s *TaskService) ListArchived(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.taskRepo.ListByStatus(ctx, user.ID, model.StatusArchived)
}

// Today returns the user's active tasks due on the current day.
func (s *TaskService) Today(ctx context.Context, user *model.User) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByStatus(ctx, user.ID, model.StatusActive)
	if err != nil {
		return nil, err
	}
	return TasksDueOn(tasks, s.now()), nil
}

// ThisWeek returns the user's active tasks due in the current Monday-based week.
func (s *TaskService) ThisWeek(ctx context.Context, user *model.User) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByStatus(ctx, user.ID, model.StatusActive)
	if err != nil {
		return nil, err
	}
	weekStart, weekEnd := WeekBounds(s.now())
	return TasksDueInWeek(tasks, weekStart, weekEnd), nil
}

// Overdue returns active once-tasks whose due date has passed.
func (s *TaskService) Overdue(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.taskRepo.ListOverdue(ctx, user.ID, DateOf(s.now()))
}

// Archive moves a task out of the active lists. Archived tasks are never
// due but keep their completion history.
func (s *TaskService) Archive(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	task, err := s.Get(ctx, user, taskID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	task.Status = model.StatusArchived
	task.ArchivedAt = &now
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Restore brings an archived task back to active and clears archived_at.
func (s *TaskService) Restore(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	task, err := s.Get(ctx, user, taskID)
	if err != nil {
		return nil, err
	}
	task.Status = model.StatusActive
	task.ArchivedAt = nil
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// buildTask validates the input and assembles a Task. The type-specific
// field requirements are checked here so an invalid combination is never
// persisted.
func buildTask(input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title", "title is required")
	}
	if len(title) > 200 {
		return nil, invalid("title", "title must be at most 200 characters")
	}

	taskType := model.TaskType(input.Type)
	if input.Type == "" {
		taskType = model.TypeOnce
	}
	switch taskType {
	case model.TypeOnce, model.TypeDaily, model.TypeWeekly, model.TypePeriod:
	default:
		return nil, invalid("type", "unknown task type: "+input.Type)
	}

	priority := model.Priority(input.Priority)
	if input.Priority == "" {
		priority = model.PriorityMedium
	}
	switch priority {
	case model.PriorityHigh, model.PriorityMedium, model.PriorityLow:
	default:
		return nil, invalid("priority", "unknown priority: "+input.Priority)
	}

	repeatDays, err := parseRepeatDays(input.RepeatDays)
	if err != nil {
		return nil, err
	}

	startDate, err := parseDate("start_date", input.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate("end_date", input.EndDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate("due_date", input.DueDate)
	if err != nil {
		return nil, err
	}

	switch taskType {
	case model.TypeOnce:
		if dueDate == nil {
			return nil, invalid("due_date", "once tasks require a due date")
		}
	case model.TypeWeekly:
		if repeatDays == "" {
			return nil, invalid("repeat_days", "weekly tasks require at least one repeat day")
		}
	case model.TypePeriod:
		if startDate == nil || endDate == nil {
			return nil, invalid("start_date", "period tasks require a start and end date")
		}
		if startDate.After(*endDate) {
			return nil, invalid("end_date", "end date must not be before start date")
		}
	case model.TypeDaily:
		if startDate != nil && endDate != nil && startDate.After(*endDate) {
			return nil, invalid("end_date", "end date must not be before start date")
		}
	}

	return &model.Task{
		Title:       title,
		Description: input.Description,
		Type:        taskType,
		Priority:    priority,
		Status:      model.StatusActive,
		RepeatDays:  repeatDays,
		StartDate:   startDate,
		EndDate:     endDate,
		DueDate:     dueDate,
	}, nil
}

// parseRepeatDays normalizes a comma-joined weekday list, rejecting
// unrecognized tags.
func parseRepeatDays(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	valid := make(map[string]bool, len(model.Weekdays))
	for _, d := range model.Weekdays {
		valid[d] = true
	}
	var days []string
	for _, part := range strings.Split(raw, ",") {
		day := strings.TrimSpace(part)
		if day == "" {
			continue
		}
		if !valid[day] {
			return "", invalid("repeat_days", "unrecognized weekday tag: "+day)
		}
		days = append(days, day)
	}
	return strings.Join(days, ","), nil
}

func parseDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil, invalid(field, "expected YYYY-MM-DD date")
	}
	d = DateOf(d)
	return &d, nil
}
