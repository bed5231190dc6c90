package model

import (
	"strings"
	"time"
)

// TaskType determines which date fields a task requires and how due-ness
// is computed.
type TaskType string

const (
	TypeOnce   TaskType = "once"
	TypeDaily  TaskType = "daily"
	TypeWeekly TaskType = "weekly"
	TypePeriod TaskType = "period"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type TaskStatus string

const (
	StatusActive   TaskStatus = "active"
	StatusArchived TaskStatus = "archived"
)

// Weekdays is the accepted set of repeat-day tags, Monday first.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Task represents a single to-do item owned by one user.
type Task struct {
	ID          uint       `gorm:"primaryKey"`
	UserID      uint       `gorm:"index;not null"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"type:text"`
	Type        TaskType   `gorm:"size:10;default:once"`
	Priority    Priority   `gorm:"size:10;default:medium"`
	Status      TaskStatus `gorm:"size:10;default:active;index"`
	RepeatDays  string     `gorm:"size:50"` // comma-joined weekday tags, weekly tasks only
	StartDate   *time.Time `gorm:"type:date"`
	EndDate     *time.Time `gorm:"type:date"`
	DueDate     *time.Time `gorm:"type:date"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ArchivedAt  *time.Time
}

// RepeatDayList splits RepeatDays into individual weekday tags.
func (t Task) RepeatDayList() []string {
	if t.RepeatDays == "" {
		return nil
	}
	parts := strings.Split(t.RepeatDays, ",")
	days := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			days = append(days, p)
		}
	}
	return days
}

// RepeatsOn reports whether the task repeats on the given weekday tag.
func (t Task) RepeatsOn(tag string) bool {
	for _, d := range t.RepeatDayList() {
		if d == tag {
			return true
		}
	}
	return false
}
