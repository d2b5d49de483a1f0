package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidNotificationKind  = errors.New("model: invalid notification kind")
	ErrInvalidNotificationLevel = errors.New("model: invalid notification level")
	ErrInvalidTimeOfDay         = errors.New("model: invalid time of day")
	ErrDueDateRequired          = errors.New("model: due_date_based notification requires a due date")
	ErrWeekdaysRequired         = errors.New("model: recurring notification requires days of week")
)

type NotificationKind string

const (
	NotificationNone         NotificationKind = "none"
	NotificationDueDateBased NotificationKind = "due_date_based"
	NotificationRecurring    NotificationKind = "recurring"
)

func (k NotificationKind) IsValid() bool {
	switch k {
	case NotificationNone, NotificationDueDateBased, NotificationRecurring:
		return true
	default:
		return false
	}
}

// Escalation tiers. Level 1 is the plain alert, level 2 adds an audible
// cue, level 3 additionally raises the window and runs browser actions.
const (
	LevelSilent  = 1
	LevelSound   = 2
	LevelUrgent  = 3
	levelDefault = LevelSilent
)

// TimeOfDay is a wall-clock moment within a day, persisted as "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

// NotificationConfig is the declarative per-task schedule the evaluator
// reads. TimeOfDay is optional for due-date-based configs; DaysOfWeek uses
// 0=Sunday through 6=Saturday.
type NotificationConfig struct {
	Kind       NotificationKind
	DaysBefore int
	TimeOfDay  *TimeOfDay
	DaysOfWeek []int
	Level      int
}

func DefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{Kind: NotificationNone, Level: levelDefault}
}

// ValidateFor checks the config against the owning task's due instant.
// Kind-specific fields are only constrained for the kind that uses them.
func (c NotificationConfig) ValidateFor(dueAt *time.Time) error {
	if !c.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidNotificationKind, c.Kind)
	}
	if c.Kind == NotificationNone {
		return nil
	}
	if c.Level < LevelSilent || c.Level > LevelUrgent {
		return fmt.Errorf("%w: %d", ErrInvalidNotificationLevel, c.Level)
	}
	switch c.Kind {
	case NotificationDueDateBased:
		if dueAt == nil || dueAt.IsZero() {
			return ErrDueDateRequired
		}
		if c.DaysBefore < 0 {
			return fmt.Errorf("model: negative days_before: %d", c.DaysBefore)
		}
	case NotificationRecurring:
		if len(c.DaysOfWeek) == 0 {
			return ErrWeekdaysRequired
		}
		for _, d := range c.DaysOfWeek {
			if d < 0 || d > 6 {
				return fmt.Errorf("model: weekday out of range: %d", d)
			}
		}
	}
	return nil
}

func (c NotificationConfig) FiresOn(day time.Weekday) bool {
	for _, d := range c.DaysOfWeek {
		if d == int(day) {
			return true
		}
	}
	return false
}

// FiredNotification is the evaluator's fire decision. It is a value handed
// straight to the dispatcher and never persisted.
type FiredNotification struct {
	TaskID       string
	Title        string
	Kind         NotificationKind
	Level        int
	DaysUntilDue int
}
