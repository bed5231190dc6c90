package service

import (
	"time"

	"task-tracker/internal/model"
)

// The visibility rules decide which tasks show up for a given day or week.
// They are pure functions over already-loaded tasks: the reference date is
// always passed in, and a malformed task yields false rather than an error,
// since validation should have rejected it before it was ever stored.

// DateOf truncates t to midnight UTC, the canonical form for calendar dates.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekdayTag formats a date's weekday as a 3-letter tag (Mon..Sun).
func WeekdayTag(day time.Time) string {
	return day.Format("Mon")
}

// WeekBounds returns the Monday and Sunday of the week containing day.
func WeekBounds(day time.Time) (time.Time, time.Time) {
	d := DateOf(day)
	offset := (int(d.Weekday()) + 6) % 7 // Monday-based
	start := d.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// IsDueOn reports whether a task should be shown on the given day.
// Archived tasks are never due.
func IsDueOn(task model.Task, day time.Time) bool {
	if task.Status != model.StatusActive {
		return false
	}
	d := DateOf(day)

	switch task.Type {
	case model.TypeOnce:
		return task.DueDate != nil && DateOf(*task.DueDate).Equal(d)
	case model.TypeDaily:
		if task.StartDate != nil && d.Before(DateOf(*task.StartDate)) {
			return false
		}
		if task.EndDate != nil && d.After(DateOf(*task.EndDate)) {
			return false
		}
		return true
	case model.TypeWeekly:
		return task.RepeatsOn(WeekdayTag(d))
	case model.TypePeriod:
		if task.StartDate == nil || task.EndDate == nil {
			return false
		}
		return !d.Before(DateOf(*task.StartDate)) && !d.After(DateOf(*task.EndDate))
	default:
		return false
	}
}

// IsDueInWeek reports whether a task should be shown somewhere in the week
// [weekStart, weekEnd]. The weekday filter of weekly tasks only applies to
// single-day queries, so a weekly task is always due within a week.
func IsDueInWeek(task model.Task, weekStart, weekEnd time.Time) bool {
	if task.Status != model.StatusActive {
		return false
	}
	start, end := DateOf(weekStart), DateOf(weekEnd)

	switch task.Type {
	case model.TypeOnce:
		if task.DueDate == nil {
			return false
		}
		due := DateOf(*task.DueDate)
		return !due.Before(start) && !due.After(end)
	case model.TypeDaily:
		if task.StartDate != nil && DateOf(*task.StartDate).After(end) {
			return false
		}
		if task.EndDate != nil && DateOf(*task.EndDate).Before(start) {
			return false
		}
		return true
	case model.TypeWeekly:
		return true
	case model.TypePeriod:
		if task.StartDate == nil || task.EndDate == nil {
			return false
		}
		return !DateOf(*task.EndDate).Before(start) && !DateOf(*task.StartDate).After(end)
	default:
		return false
	}
}

// TasksDueOn filters tasks down to those due on the given day.
func TasksDueOn(tasks []model.Task, day time.Time) []model.Task {
	due := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if IsDueOn(task, day) {
			due = append(due, task)
		}
	}
	return due
}

// TasksDueInWeek filters tasks down to those due in [weekStart, weekEnd].
func TasksDueInWeek(tasks []model.Task, weekStart, weekEnd time.Time) []model.Task {
	due := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if IsDueInWeek(task, weekStart, weekEnd) {
			due = append(due, task)
		}
	}
	return due
}
