// Package notify decides when a task's reminder fires and delivers the
// resulting side effects.
package notify

import (
	"time"

	"github.com/sandeepkv93/taskping/internal/model"
)

// DefaultTolerance matches the scheduler's wake interval so every
// boundary crossing is seen by exactly one sweep.
const DefaultTolerance = 15 * time.Minute

// Evaluator turns a task plus an instant into a fire decision. It is
// stateless and side-effect free; redundant calls are harmless.
type Evaluator struct {
	Tolerance time.Duration
}

func NewEvaluator() *Evaluator {
	return &Evaluator{Tolerance: DefaultTolerance}
}

// Evaluate returns the notification to fire for the task at now, if any.
// Done tasks and kind=none never fire. Config invariant violations (a
// due-date config without a due instant, a recurring config without
// weekdays or a time of day) yield no fire.
func (e *Evaluator) Evaluate(task model.Task, now time.Time) (model.FiredNotification, bool) {
	if task.Status == model.TaskStatusDone {
		return model.FiredNotification{}, false
	}
	switch task.Notification.Kind {
	case model.NotificationDueDateBased:
		return e.evaluateDueDate(task, now)
	case model.NotificationRecurring:
		return e.evaluateRecurring(task, now)
	default:
		return model.FiredNotification{}, false
	}
}

func (e *Evaluator) evaluateDueDate(task model.Task, now time.Time) (model.FiredNotification, bool) {
	cfg := task.Notification
	if task.DueAt == nil || task.DueAt.IsZero() || cfg.DaysBefore < 0 {
		return model.FiredNotification{}, false
	}

	// Target instant: the due day at the configured time of day, or the
	// due instant verbatim when no time of day is set.
	target := task.DueAt.In(now.Location())
	if cfg.TimeOfDay != nil {
		y, m, d := target.Date()
		target = time.Date(y, m, d, cfg.TimeOfDay.Hour, cfg.TimeOfDay.Minute, 0, 0, now.Location())
	}

	windowOpen := target.AddDate(0, 0, -cfg.DaysBefore)
	diff := now.Sub(windowOpen)
	if diff < 0 || diff > e.Tolerance {
		return model.FiredNotification{}, false
	}

	return model.FiredNotification{
		TaskID:       task.ID,
		Title:        task.Title,
		Kind:         model.NotificationDueDateBased,
		Level:        cfg.Level,
		DaysUntilDue: calendarDaysBetween(now, target),
	}, true
}

func (e *Evaluator) evaluateRecurring(task model.Task, now time.Time) (model.FiredNotification, bool) {
	cfg := task.Notification
	if len(cfg.DaysOfWeek) == 0 || cfg.TimeOfDay == nil {
		return model.FiredNotification{}, false
	}
	if !cfg.FiresOn(now.Weekday()) {
		return model.FiredNotification{}, false
	}

	// Forward minute-of-day distance, so a 23:30 target reached at 00:10
	// the next day still measures 40 minutes, not a negative value.
	nowMinute := now.Hour()*60 + now.Minute()
	diff := (nowMinute - cfg.TimeOfDay.MinuteOfDay() + 24*60) % (24 * 60)
	if diff > int(e.Tolerance/time.Minute) {
		return model.FiredNotification{}, false
	}

	return model.FiredNotification{
		TaskID: task.ID,
		Title:  task.Title,
		Kind:   model.NotificationRecurring,
		Level:  cfg.Level,
	}, true
}

// calendarDaysBetween counts whole calendar days from now's date to the
// target's date, so a task due tomorrow afternoon reports one day even
// when fewer than 24 hours remain.
func calendarDaysBetween(now, target time.Time) int {
	y, m, d := now.Date()
	nowDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	y, m, d = target.Date()
	targetDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return int(targetDay.Sub(nowDay) / (24 * time.Hour))
}
