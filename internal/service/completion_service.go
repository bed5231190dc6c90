package service

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// Stats summarizes completions over a window of days. Field names match
// the JSON contract the frontend depends on.
type Stats struct {
	TotalDays      int      `json:"total_days"`
	CompletedDays  int      `json:"completed_days"`
	CompletionRate float64  `json:"completion_rate"`
	Dates          []string `json:"dates"`
}

// MonthlyStats is Stats for one calendar month.
type MonthlyStats struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Stats
}

// CompletionService wraps the per-day completion lifecycle and the
// statistics derived from it. All operations are scoped to tasks the
// given user owns.
type CompletionService struct {
	completionRepo *repository.CompletionRepository
	taskRepo       *repository.TaskRepository
	now            func() time.Time
}

func NewCompletionService(completionRepo *repository.CompletionRepository, taskRepo *repository.TaskRepository) *CompletionService {
	return &CompletionService{
		completionRepo: completionRepo,
		taskRepo:       taskRepo,
		now:            time.Now,
	}
}

// MarkComplete records that a task was done on the given date (today when
// empty). It is idempotent: if a completion already exists for the date,
// the existing record is returned untouched with created=false. The race
// between concurrent calls is settled by the unique index, not by locks:
// the losing insert re-fetches the winner's row.
func (s *CompletionService) MarkComplete(ctx context.Context, user *model.User, taskID uint, dateStr, note string) (*model.Completion, bool, error) {
	task, err := s.resolveTask(ctx, user, taskID)
	if err != nil {
		return nil, false, err
	}

	date, err := s.resolveDate(dateStr)
	if err != nil {
		return nil, false, err
	}

	completion := &model.Completion{
		TaskID:        task.ID,
		CompletedDate: date,
		CompletedTime: s.now(),
		Note:          note,
	}

	err = s.completionRepo.Create(ctx, completion)
	if errors.Is(err, repository.ErrDuplicateCompletion) {
		existing, ferr := s.completionRepo.FindByTaskAndDate(ctx, task.ID, date)
		if ferr != nil {
			return nil, false, ferr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return completion, true, nil
}

// IsCompletedOn checks whether the task was completed on the given date
// (today when empty).
func (s *CompletionService) IsCompletedOn(ctx context.Context, user *model.User, taskID uint, dateStr string) (bool, error) {
	if _, err := s.resolveTask(ctx, user, taskID); err != nil {
		return false, err
	}
	date, err := s.resolveDate(dateStr)
	if err != nil {
		return false, err
	}
	return s.completionRepo.ExistsOn(ctx, taskID, date)
}

// Undo deletes a completion record.
func (s *CompletionService) Undo(ctx context.Context, user *model.User, completionID uint) error {
	completion, err := s.completionRepo.FindOwnedByID(ctx, user.ID, completionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return s.completionRepo.Delete(ctx, completion.ID)
}

// List returns the user's completions, optionally limited to one task.
func (s *CompletionService) List(ctx context.Context, user *model.User, taskID *uint) ([]model.Completion, error) {
	if taskID != nil {
		if _, err := s.resolveTask(ctx, user, *taskID); err != nil {
			return nil, err
		}
	}
	return s.completionRepo.ListByUser(ctx, user.ID, taskID)
}

// Streak counts consecutive completed days walking backward from today.
// The scan stops at the first gap, so a single missed day resets the
// streak, including a gap on today itself.
func (s *CompletionService) Streak(ctx context.Context, user *model.User, taskID uint) (int, error) {
	if _, err := s.resolveTask(ctx, user, taskID); err != nil {
		return 0, err
	}

	streak := 0
	day := DateOf(s.now())
	for {
		done, err := s.completionRepo.ExistsOn(ctx, taskID, day)
		if err != nil {
			return 0, err
		}
		if !done {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

// WeeklyStats summarizes the 7-day window starting at startDate (the last
// 7 days when empty).
func (s *CompletionService) WeeklyStats(ctx context.Context, user *model.User, taskID uint, startDateStr string) (*Stats, error) {
	if _, err := s.resolveTask(ctx, user, taskID); err != nil {
		return nil, err
	}

	var start time.Time
	if startDateStr == "" {
		start = DateOf(s.now()).AddDate(0, 0, -6)
	} else {
		d, err := time.Parse(dateLayout, startDateStr)
		if err != nil {
			return nil, invalid("start_date", "expected YYYY-MM-DD date")
		}
		start = DateOf(d)
	}
	end := start.AddDate(0, 0, 6)

	completions, err := s.completionRepo.ListInRange(ctx, taskID, start, end, false)
	if err != nil {
		return nil, err
	}
	return buildStats(7, completions), nil
}

// MonthlyStats summarizes one calendar month; total days follow the
// calendar, so February of a leap year counts 29.
func (s *CompletionService) MonthlyStats(ctx context.Context, user *model.User, taskID uint, year, month int) (*MonthlyStats, error) {
	if _, err := s.resolveTask(ctx, user, taskID); err != nil {
		return nil, err
	}

	today := s.now()
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = int(today.Month())
	}
	if month < 1 || month > 12 {
		return nil, invalid("month", "month must be between 1 and 12")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	totalDays := daysInMonth(year, time.Month(month))
	end := start.AddDate(0, 0, totalDays-1)

	completions, err := s.completionRepo.ListInRange(ctx, taskID, start, end, false)
	if err != nil {
		return nil, err
	}

	return &MonthlyStats{
		Year:  year,
		Month: month,
		Stats: *buildStats(totalDays, completions),
	}, nil
}

// History returns completions within the last `days` days, newest first.
func (s *CompletionService) History(ctx context.Context, user *model.User, taskID uint, days int) ([]model.Completion, error) {
	if _, err := s.resolveTask(ctx, user, taskID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 30
	}
	end := DateOf(s.now())
	start := end.AddDate(0, 0, -(days - 1))
	return s.completionRepo.ListInRange(ctx, taskID, start, end, true)
}

func (s *CompletionService) resolveTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return task, err
}

// resolveDate parses an optional completion date, defaulting to today and
// rejecting future dates.
func (s *CompletionService) resolveDate(raw string) (time.Time, error) {
	today := DateOf(s.now())
	if raw == "" {
		return today, nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, invalid("completed_date", "expected YYYY-MM-DD date")
	}
	date := DateOf(d)
	if date.After(today) {
		return time.Time{}, invalid("completed_date", "completed date cannot be in the future")
	}
	return date, nil
}

func buildStats(totalDays int, completions []model.Completion) *Stats {
	dates := make([]string, 0, len(completions))
	for _, c := range completions {
		dates = append(dates, c.CompletedDate.Format(dateLayout))
	}

	rate := 0.0
	if totalDays > 0 {
		rate = round1(float64(len(completions)) / float64(totalDays) * 100)
	}

	return &Stats{
		TotalDays:      totalDays,
		CompletedDays:  len(completions),
		CompletionRate: rate,
		Dates:          dates,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
