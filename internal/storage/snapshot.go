package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/taskping/internal/model"
)

// SnapshotProvider adapts the repository to the scheduler's read-only
// view. A row whose notification config fails to decode is skipped for
// the sweep with a log line; it never aborts the sweep.
type SnapshotProvider struct {
	repo Repository
	log  logrus.FieldLogger
}

func NewSnapshotProvider(repo Repository, log logrus.FieldLogger) *SnapshotProvider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SnapshotProvider{repo: repo, log: log}
}

func (p *SnapshotProvider) ListActiveNotifiable(ctx context.Context) ([]model.Task, error) {
	rows, err := p.repo.ListActiveNotifiable(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		task, decodeErr := DecodeTask(row)
		if decodeErr != nil {
			p.log.WithField("task", row.ID).WithError(decodeErr).Warn("skipping task with malformed notification config")
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

// DecodeTask converts a persisted row into the domain form, parsing the
// notification columns and the browser-actions blob.
func DecodeTask(row Task) (model.Task, error) {
	task := model.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      model.TaskStatus(row.Status),
		Priority:    model.Priority(row.Priority),
		ParentID:    row.ParentID,
		DueAt:       row.DueAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		CompletedAt: row.CompletedAt,
	}

	cfg, err := decodeNotificationConfig(row)
	if err != nil {
		return model.Task{}, err
	}
	task.Notification = cfg

	settings, err := decodeBrowserActions(row.BrowserActions)
	if err != nil {
		return model.Task{}, err
	}
	task.BrowserConfig = settings
	return task, nil
}

func decodeNotificationConfig(row Task) (model.NotificationConfig, error) {
	cfg := model.DefaultNotificationConfig()
	if row.NotificationType != "" {
		cfg.Kind = model.NotificationKind(row.NotificationType)
	}
	if !cfg.Kind.IsValid() {
		return model.NotificationConfig{}, fmt.Errorf("storage: unknown notification type %q", row.NotificationType)
	}
	if row.NotificationDaysBefore != nil {
		cfg.DaysBefore = *row.NotificationDaysBefore
	}
	if row.NotificationTime != nil && strings.TrimSpace(*row.NotificationTime) != "" {
		tod, err := model.ParseTimeOfDay(*row.NotificationTime)
		if err != nil {
			return model.NotificationConfig{}, err
		}
		cfg.TimeOfDay = &tod
	}
	if row.NotificationDaysOfWeek != nil && strings.TrimSpace(*row.NotificationDaysOfWeek) != "" {
		var days []int
		if err := json.Unmarshal([]byte(*row.NotificationDaysOfWeek), &days); err != nil {
			return model.NotificationConfig{}, fmt.Errorf("storage: parse days of week: %w", err)
		}
		cfg.DaysOfWeek = days
	}
	if row.NotificationLevel != 0 {
		cfg.Level = row.NotificationLevel
	}
	if cfg.Kind != model.NotificationNone {
		if err := cfg.ValidateFor(row.DueAt); err != nil {
			return model.NotificationConfig{}, err
		}
	}
	return cfg, nil
}

func decodeBrowserActions(blob string) (model.BrowserActionSettings, error) {
	if strings.TrimSpace(blob) == "" {
		return model.BrowserActionSettings{}, nil
	}
	var settings model.BrowserActionSettings
	if err := json.Unmarshal([]byte(blob), &settings); err != nil {
		return model.BrowserActionSettings{}, fmt.Errorf("storage: parse browser actions: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return model.BrowserActionSettings{}, err
	}
	return settings, nil
}

// EncodeTask converts a domain task into its row shape, serializing the
// notification config and browser actions.
func EncodeTask(task model.Task) (Task, error) {
	row := Task{
		ID:                task.ID,
		Title:             task.Title,
		Description:       task.Description,
		Status:            string(task.Status),
		Priority:          string(task.Priority),
		ParentID:          task.ParentID,
		DueAt:             task.DueAt,
		NotificationType:  string(task.Notification.Kind),
		NotificationLevel: task.Notification.Level,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
		CompletedAt:       task.CompletedAt,
	}
	if task.Notification.DaysBefore != 0 {
		days := task.Notification.DaysBefore
		row.NotificationDaysBefore = &days
	}
	if task.Notification.TimeOfDay != nil {
		tod := task.Notification.TimeOfDay.String()
		row.NotificationTime = &tod
	}
	if len(task.Notification.DaysOfWeek) > 0 {
		raw, err := json.Marshal(task.Notification.DaysOfWeek)
		if err != nil {
			return Task{}, fmt.Errorf("storage: encode days of week: %w", err)
		}
		s := string(raw)
		row.NotificationDaysOfWeek = &s
	}
	if task.BrowserConfig.Enabled || len(task.BrowserConfig.Actions) > 0 {
		raw, err := json.Marshal(task.BrowserConfig)
		if err != nil {
			return Task{}, fmt.Errorf("storage: encode browser actions: %w", err)
		}
		row.BrowserActions = string(raw)
	}
	return row, nil
}
