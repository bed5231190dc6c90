package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// ReminderService produces the nightly per-user summary: how many tasks
// are due today and how many once-tasks are overdue. It only reads; the
// request path stays the sole writer.
type ReminderService struct {
	userRepo *repository.UserRepository
	taskRepo *repository.TaskRepository
	logger   *log.Logger
	now      func() time.Time
}

func NewReminderService(userRepo *repository.UserRepository, taskRepo *repository.TaskRepository, logger *log.Logger) *ReminderService {
	return &ReminderService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// LogDailySummaries walks all users and logs their due-today and overdue
// counts. Per-user failures are logged and skipped so one broken account
// does not stop the run.
func (s *ReminderService) LogDailySummaries(ctx context.Context) error {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	today := DateOf(s.now())
	for _, user := range users {
		tasks, err := s.taskRepo.ListByStatus(ctx, user.ID, model.StatusActive)
		if err != nil {
			s.logger.Error("daily summary: list tasks", "user", user.Username, "err", err)
			continue
		}
		overdue, err := s.taskRepo.ListOverdue(ctx, user.ID, today)
		if err != nil {
			s.logger.Error("daily summary: list overdue", "user", user.Username, "err", err)
			continue
		}

		s.logger.Info("daily summary",
			"user", user.Username,
			"date", today.Format(dateLayout),
			"due_today", len(TasksDueOn(tasks, today)),
			"overdue", len(overdue),
		)
	}
	return nil
}
