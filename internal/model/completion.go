package model

import "time"

// Completion records that a task was done on a calendar date. The
// (task_id, completed_date) pair carries a unique index: a task can be
// completed at most once per day, and concurrent attempts are resolved
// by the database rather than application locks.
type Completion struct {
	ID            uint      `gorm:"primaryKey"`
	TaskID        uint      `gorm:"not null;index;uniqueIndex:idx_task_completed_date"`
	Task          Task      `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	CompletedDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_task_completed_date"`
	CompletedTime time.Time `gorm:"not null"` // set once at creation, never updated
	Note          string    `gorm:"type:text"`
	CreatedAt     time.Time
}
