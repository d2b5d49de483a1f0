package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/taskping/internal/browser"
	"github.com/sandeepkv93/taskping/internal/model"
)

// Sink renders notifications on the platform. ShowAlert is the one call
// whose failure fails a dispatch; the rest are best-effort.
type Sink interface {
	ShowAlert(title, body string) error
	PlayCue()
	BringToFront()
}

type Dispatcher struct {
	sink Sink
	exec *browser.Executor
	log  logrus.FieldLogger
}

func NewDispatcher(sink Sink, exec *browser.Executor, log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{sink: sink, exec: exec, log: log}
}

// Fire delivers one fired notification. The alert always shows; level 2
// adds the audible cue; level 3 raises the window and runs the task's
// browser actions. Everything past the alert is swallowed-and-logged so
// a hostile side effect cannot fail a delivered notification.
func (d *Dispatcher) Fire(ctx context.Context, n model.FiredNotification, task model.Task) error {
	d.log.WithFields(logrus.Fields{
		"task":  n.TaskID,
		"kind":  n.Kind,
		"level": n.Level,
	}).Info("firing notification")

	if err := d.sink.ShowAlert(alertTitle(n), n.Title); err != nil {
		return fmt.Errorf("notify: show alert: %w", err)
	}

	if n.Level >= model.LevelSound {
		d.sink.PlayCue()
	}

	if n.Level >= model.LevelUrgent {
		d.sink.BringToFront()
		if actions := task.BrowserConfig.EnabledActions(); len(actions) > 0 {
			d.exec.Run(ctx, actions)
		}
	}
	return nil
}

// alertTitle picks the alert headline by kind and, for due-date
// notifications, by urgency bucket.
func alertTitle(n model.FiredNotification) string {
	switch n.Kind {
	case model.NotificationDueDateBased:
		switch {
		case n.DaysUntilDue <= 0:
			return "Due today"
		case n.DaysUntilDue == 1:
			return "Due tomorrow"
		default:
			return fmt.Sprintf("Due in %d days", n.DaysUntilDue)
		}
	case model.NotificationRecurring:
		return "Recurring reminder"
	default:
		return "Task reminder"
	}
}
