package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus   = errors.New("model: invalid task status")
	ErrInvalidPriority = errors.New("model: invalid task priority")
)

type TaskStatus string

const (
	TaskStatusInbox      TaskStatus = "inbox"
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusInbox, TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityRequired Priority = "required"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityRequired:
		return true
	default:
		return false
	}
}

type Task struct {
	ID            string
	Title         string
	Description   string
	Status        TaskStatus
	Priority      Priority
	ParentID      string
	DueAt         *time.Time
	Tags          []string
	Notification  NotificationConfig
	BrowserConfig BrowserActionSettings
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

func NewTask(title string, priority Priority) Task {
	now := time.Now().UTC()
	return Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    TaskStatusInbox,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Status == TaskStatusDone && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task status is done")
	}
	if t.Status != TaskStatusDone && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task status is not done")
	}
	if err := t.Notification.ValidateFor(t.DueAt); err != nil {
		return err
	}
	return t.BrowserConfig.Validate()
}
