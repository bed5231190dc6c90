package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// ErrDuplicateCompletion is returned when a completion already exists for
// the same (task, date) pair. Callers treat it as a recoverable outcome,
// not a failure.
var ErrDuplicateCompletion = errors.New("completion already exists for this date")

// CompletionRepository handles completion records. Ownership checks go
// through the tasks table so a completion is only visible to the user
// who owns its task.
type CompletionRepository struct {
	db *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// Create inserts a completion, relying on the (task_id, completed_date)
// unique index to reject duplicates.
func (r *CompletionRepository) Create(ctx context.Context, completion *model.Completion) error {
	if err := r.db.WithContext(ctx).Create(completion).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCompletion
		}
		return fmt.Errorf("create completion: %w", err)
	}
	return nil
}

func (r *CompletionRepository) FindByTaskAndDate(ctx context.Context, taskID uint, date time.Time) (*model.Completion, error) {
	var completion model.Completion
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND completed_date = ?", taskID, date).
		First(&completion).Error; err != nil {
		return nil, err
	}
	return &completion, nil
}

// FindOwnedByID loads a completion only if its task belongs to the user.
func (r *CompletionRepository) FindOwnedByID(ctx context.Context, userID, completionID uint) (*model.Completion, error) {
	var completion model.Completion
	if err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = completions.task_id").
		Where("completions.id = ? AND tasks.user_id = ?", completionID, userID).
		First(&completion).Error; err != nil {
		return nil, err
	}
	return &completion, nil
}

func (r *CompletionRepository) ExistsOn(ctx context.Context, taskID uint, date time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Completion{}).
		Where("task_id = ? AND completed_date = ?", taskID, date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListInRange returns completions of a task within [from, to] inclusive,
// oldest first, or newest first when desc is set.
func (r *CompletionRepository) ListInRange(ctx context.Context, taskID uint, from, to time.Time, desc bool) ([]model.Completion, error) {
	order := "completed_date ASC"
	if desc {
		order = "completed_date DESC"
	}
	var completions []model.Completion
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND completed_date >= ? AND completed_date <= ?", taskID, from, to).
		Order(order).
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

// ListByUser returns all completions the user owns, optionally limited to
// one task, newest first.
func (r *CompletionRepository) ListByUser(ctx context.Context, userID uint, taskID *uint) ([]model.Completion, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = completions.task_id").
		Where("tasks.user_id = ?", userID).
		Preload("Task").
		Order("completions.completed_date DESC, completions.completed_time DESC")
	if taskID != nil {
		q = q.Where("completions.task_id = ?", *taskID)
	}
	var completions []model.Completion
	if err := q.Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *CompletionRepository) Delete(ctx context.Context, completionID uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Completion{}, completionID).Error; err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}
