package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/taskping/internal/model"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDecodeTaskFullConfig(t *testing.T) {
	due := time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC)
	row := Task{
		ID:                     "task-1",
		Title:                  "Renew passport",
		Status:                 "todo",
		Priority:               "high",
		DueAt:                  &due,
		CreatedAt:              due.AddDate(0, -1, 0),
		UpdatedAt:              due.AddDate(0, -1, 0),
		NotificationType:       "due_date_based",
		NotificationDaysBefore: intPtr(3),
		NotificationTime:       strPtr("08:45"),
		NotificationLevel:      3,
		BrowserActions:         `{"enabled":true,"actions":[{"id":"a1","label":"Booking","url":"https://passport.example.com","enabled":true,"order":0}]}`,
	}

	task, err := DecodeTask(row)
	if err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.Notification.Kind != model.NotificationDueDateBased {
		t.Fatalf("unexpected kind: %v", task.Notification.Kind)
	}
	if task.Notification.DaysBefore != 3 || task.Notification.Level != model.LevelUrgent {
		t.Fatalf("unexpected config: %#v", task.Notification)
	}
	if task.Notification.TimeOfDay == nil || task.Notification.TimeOfDay.String() != "08:45" {
		t.Fatalf("unexpected time of day: %#v", task.Notification.TimeOfDay)
	}
	actions := task.BrowserConfig.EnabledActions()
	if len(actions) != 1 || actions[0].URL != "https://passport.example.com" {
		t.Fatalf("unexpected actions: %#v", actions)
	}
}

func TestDecodeTaskRecurringDaysOfWeek(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	row := Task{
		ID:                     "task-rec",
		Title:                  "Weekly review",
		Status:                 "todo",
		Priority:               "medium",
		CreatedAt:              now,
		UpdatedAt:              now,
		NotificationType:       "recurring",
		NotificationTime:       strPtr("09:00"),
		NotificationDaysOfWeek: strPtr("[1,3,5]"),
		NotificationLevel:      2,
	}

	task, err := DecodeTask(row)
	if err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.Notification.Kind != model.NotificationRecurring {
		t.Fatalf("unexpected kind: %v", task.Notification.Kind)
	}
	if len(task.Notification.DaysOfWeek) != 3 || task.Notification.DaysOfWeek[1] != 3 {
		t.Fatalf("unexpected days of week: %#v", task.Notification.DaysOfWeek)
	}
}

func TestDecodeTaskEmptyBlobsDefaultOff(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	row := Task{
		ID:        "task-plain",
		Title:     "Plain task",
		Status:    "inbox",
		Priority:  "low",
		CreatedAt: now,
		UpdatedAt: now,
	}

	task, err := DecodeTask(row)
	if err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.Notification.Kind != model.NotificationNone {
		t.Fatalf("unexpected kind: %v", task.Notification.Kind)
	}
	if task.BrowserConfig.Enabled || len(task.BrowserConfig.Actions) != 0 {
		t.Fatalf("unexpected browser config: %#v", task.BrowserConfig)
	}
}

func TestDecodeTaskMalformedConfig(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		row  Task
	}{
		{
			name: "unknown type",
			row: Task{
				ID: "t1", Title: "x", Status: "todo", Priority: "low",
				CreatedAt: now, UpdatedAt: now,
				NotificationType: "hourly",
			},
		},
		{
			name: "bad time of day",
			row: Task{
				ID: "t2", Title: "x", Status: "todo", Priority: "low",
				CreatedAt: now, UpdatedAt: now,
				NotificationType:       "recurring",
				NotificationTime:       strPtr("25:99"),
				NotificationDaysOfWeek: strPtr("[1]"),
				NotificationLevel:      1,
			},
		},
		{
			name: "bad days of week json",
			row: Task{
				ID: "t3", Title: "x", Status: "todo", Priority: "low",
				CreatedAt: now, UpdatedAt: now,
				NotificationType:       "recurring",
				NotificationTime:       strPtr("09:00"),
				NotificationDaysOfWeek: strPtr("{not json"),
				NotificationLevel:      1,
			},
		},
		{
			name: "bad browser actions json",
			row: Task{
				ID: "t4", Title: "x", Status: "todo", Priority: "low",
				CreatedAt: now, UpdatedAt: now,
				BrowserActions: "{broken",
			},
		},
		{
			name: "due date type without due date",
			row: Task{
				ID: "t5", Title: "x", Status: "todo", Priority: "low",
				CreatedAt: now, UpdatedAt: now,
				NotificationType:  "due_date_based",
				NotificationLevel: 1,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeTask(tc.row); err == nil {
				t.Fatalf("expected decode error for %s", tc.name)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	due := time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC)
	now := due.AddDate(0, -1, 0)
	tod := model.TimeOfDay{Hour: 8, Minute: 45}

	original := model.Task{
		ID:       "task-rt",
		Title:    "Renew passport",
		Status:   model.TaskStatusTodo,
		Priority: model.PriorityHigh,
		DueAt:    &due,
		Notification: model.NotificationConfig{
			Kind:       model.NotificationDueDateBased,
			DaysBefore: 3,
			TimeOfDay:  &tod,
			Level:      model.LevelUrgent,
		},
		BrowserConfig: model.BrowserActionSettings{
			Enabled: true,
			Actions: []model.BrowserAction{
				{ID: "a1", Label: "Booking", URL: "https://passport.example.com", Enabled: true, Order: 0},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	row, err := EncodeTask(original)
	if err != nil {
		t.Fatalf("encode task: %v", err)
	}
	decoded, err := DecodeTask(row)
	if err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if decoded.Notification.Kind != original.Notification.Kind ||
		decoded.Notification.DaysBefore != original.Notification.DaysBefore ||
		decoded.Notification.Level != original.Notification.Level {
		t.Fatalf("notification config changed in round trip: %#v", decoded.Notification)
	}
	if decoded.Notification.TimeOfDay == nil || *decoded.Notification.TimeOfDay != tod {
		t.Fatalf("time of day changed in round trip: %#v", decoded.Notification.TimeOfDay)
	}
	if len(decoded.BrowserConfig.Actions) != 1 || decoded.BrowserConfig.Actions[0].URL != original.BrowserConfig.Actions[0].URL {
		t.Fatalf("browser actions changed in round trip: %#v", decoded.BrowserConfig)
	}
}

func TestSnapshotProviderSkipsMalformedRows(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	due := time.Date(2026, 8, 20, 17, 0, 0, 0, time.UTC)

	good := Task{
		ID: "good", Title: "Good task", Status: "todo", Priority: "high",
		DueAt: &due, CreatedAt: now, UpdatedAt: now,
		NotificationType:  "due_date_based",
		NotificationLevel: 2,
	}
	bad := Task{
		ID: "bad", Title: "Bad task", Status: "todo", Priority: "low",
		CreatedAt: now, UpdatedAt: now,
		NotificationType:       "recurring",
		NotificationTime:       strPtr("not-a-time"),
		NotificationDaysOfWeek: strPtr("[1]"),
		NotificationLevel:      1,
	}
	if err := repo.CreateTask(ctx, good); err != nil {
		t.Fatalf("create good task: %v", err)
	}
	if err := repo.CreateTask(ctx, bad); err != nil {
		t.Fatalf("create bad task: %v", err)
	}

	provider := NewSnapshotProvider(repo, quietLogger())
	tasks, err := provider.ListActiveNotifiable(ctx)
	if err != nil {
		t.Fatalf("list active notifiable: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "good" {
		t.Fatalf("expected only the decodable task, got: %#v", tasks)
	}
}
