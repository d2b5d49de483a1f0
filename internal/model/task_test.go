package model

import (
	"errors"
	"testing"
	"time"
)

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask("Write report", PriorityHigh)
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	if task.Status != TaskStatusInbox {
		t.Fatalf("expected inbox status, got %q", task.Status)
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected new task to validate, got %v", err)
	}
}

func TestTaskValidateStatus(t *testing.T) {
	task := NewTask("Broken", PriorityLow)
	task.Status = TaskStatus("archived")
	if err := task.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestTaskValidateCompletedAtPairing(t *testing.T) {
	task := NewTask("Done task", PriorityMedium)
	task.Status = TaskStatusDone
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for done task without completed_at")
	}

	done := time.Now().UTC()
	task.CompletedAt = &done
	if err := task.Validate(); err != nil {
		t.Fatalf("expected done task with completed_at to validate, got %v", err)
	}
}

func TestTaskValidateNotificationConfig(t *testing.T) {
	task := NewTask("Notify me", PriorityMedium)
	task.Notification = NotificationConfig{Kind: NotificationDueDateBased, Level: LevelSilent}
	if err := task.Validate(); !errors.Is(err, ErrDueDateRequired) {
		t.Fatalf("expected ErrDueDateRequired via task validation, got %v", err)
	}
}
