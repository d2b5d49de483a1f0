package storage

import "time"

// Task is the persisted row shape. Notification settings live in
// dedicated columns; browser actions are a JSON blob (see model for the
// decoded forms).
type Task struct {
	ID                     string
	Title                  string
	Description            string
	Status                 string
	Priority               string
	ParentID               string
	DueAt                  *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
	CompletedAt            *time.Time
	NotificationType       string
	NotificationDaysBefore *int
	NotificationTime       *string
	NotificationDaysOfWeek *string
	NotificationLevel      int
	BrowserActions         string
}

type Tag struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}

type TaskListFilter struct {
	Status string
	Limit  int
	Offset int
}

type TagListFilter struct {
	Limit  int
	Offset int
}
