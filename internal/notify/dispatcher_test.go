package notify

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/taskping/internal/browser"
	"github.com/sandeepkv93/taskping/internal/model"
	"github.com/sandeepkv93/taskping/internal/urlcheck"
)

type recordingSink struct {
	alertTitle string
	alertBody  string
	alertErr   error
	alerts     int
	cues       int
	fronts     int
}

func (s *recordingSink) ShowAlert(title, body string) error {
	s.alerts++
	s.alertTitle = title
	s.alertBody = body
	return s.alertErr
}

func (s *recordingSink) PlayCue()      { s.cues++ }
func (s *recordingSink) BringToFront() { s.fronts++ }

type countingOpener struct {
	mu   sync.Mutex
	urls []string
}

func (c *countingOpener) Open(ctx context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls = append(c.urls, url)
	return nil
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestDispatcher(sink Sink, opener browser.Opener) *Dispatcher {
	exec := browser.NewExecutor(opener, urlcheck.NewValidator(), testLogger()).WithTiming(time.Second, 0)
	return NewDispatcher(sink, exec, testLogger())
}

func urgentTask(actions ...model.BrowserAction) model.Task {
	task := model.NewTask("Escalated task", model.PriorityHigh)
	task.Status = model.TaskStatusTodo
	task.BrowserConfig = model.BrowserActionSettings{Enabled: true, Actions: actions}
	return task
}

func TestFireLevelOneAlertOnly(t *testing.T) {
	sink := &recordingSink{}
	opener := &countingOpener{}
	d := newTestDispatcher(sink, opener)

	n := model.FiredNotification{TaskID: "t1", Title: "Water plants", Kind: model.NotificationRecurring, Level: model.LevelSilent}
	if err := d.Fire(context.Background(), n, urgentTask()); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if sink.alerts != 1 || sink.cues != 0 || sink.fronts != 0 {
		t.Fatalf("level 1 side effects wrong: alerts=%d cues=%d fronts=%d", sink.alerts, sink.cues, sink.fronts)
	}
	if len(opener.urls) != 0 {
		t.Fatal("level 1 must not run browser actions")
	}
}

func TestFireLevelTwoAddsCue(t *testing.T) {
	sink := &recordingSink{}
	d := newTestDispatcher(sink, &countingOpener{})

	n := model.FiredNotification{TaskID: "t1", Title: "Standup", Kind: model.NotificationRecurring, Level: model.LevelSound}
	if err := d.Fire(context.Background(), n, urgentTask()); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if sink.alerts != 1 || sink.cues != 1 || sink.fronts != 0 {
		t.Fatalf("level 2 side effects wrong: alerts=%d cues=%d fronts=%d", sink.alerts, sink.cues, sink.fronts)
	}
}

func TestFireLevelThreeEscalatesFully(t *testing.T) {
	sink := &recordingSink{}
	opener := &countingOpener{}
	d := newTestDispatcher(sink, opener)

	task := urgentTask(
		model.BrowserAction{ID: "b", URL: "https://b.example.com", Enabled: true, Order: 2},
		model.BrowserAction{ID: "a", URL: "https://a.example.com", Enabled: true, Order: 1},
		model.BrowserAction{ID: "c", URL: "https://c.example.com", Enabled: false, Order: 3},
	)
	n := model.FiredNotification{TaskID: task.ID, Title: task.Title, Kind: model.NotificationDueDateBased, Level: model.LevelUrgent, DaysUntilDue: 0}

	if err := d.Fire(context.Background(), n, task); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if sink.alerts != 1 || sink.cues != 1 || sink.fronts != 1 {
		t.Fatalf("level 3 side effects wrong: alerts=%d cues=%d fronts=%d", sink.alerts, sink.cues, sink.fronts)
	}
	if len(opener.urls) != 2 {
		t.Fatalf("expected 2 browser opens, got %v", opener.urls)
	}
	if opener.urls[0] != "https://a.example.com" {
		t.Fatalf("expected ascending order, got %v", opener.urls)
	}
}

func TestFireSkipsActionsWhenSetDisabled(t *testing.T) {
	sink := &recordingSink{}
	opener := &countingOpener{}
	d := newTestDispatcher(sink, opener)

	task := urgentTask(model.BrowserAction{ID: "a", URL: "https://a.example.com", Enabled: true, Order: 1})
	task.BrowserConfig.Enabled = false
	n := model.FiredNotification{TaskID: task.ID, Title: task.Title, Kind: model.NotificationRecurring, Level: model.LevelUrgent}

	if err := d.Fire(context.Background(), n, task); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if len(opener.urls) != 0 {
		t.Fatal("disabled action set must not open anything")
	}
}

func TestFireAlertFailurePropagates(t *testing.T) {
	sink := &recordingSink{alertErr: errors.New("notifier unavailable")}
	d := newTestDispatcher(sink, &countingOpener{})

	n := model.FiredNotification{TaskID: "t1", Title: "Anything", Kind: model.NotificationRecurring, Level: model.LevelSilent}
	if err := d.Fire(context.Background(), n, urgentTask()); err == nil {
		t.Fatal("expected alert failure to fail the dispatch")
	}
}

func TestFireBadActionDoesNotFailDispatch(t *testing.T) {
	sink := &recordingSink{}
	opener := &countingOpener{}
	d := newTestDispatcher(sink, opener)

	task := urgentTask(
		model.BrowserAction{ID: "bad", URL: "javascript:alert(1)", Enabled: true, Order: 1},
		model.BrowserAction{ID: "good", URL: "https://ok.example.com", Enabled: true, Order: 2},
	)
	n := model.FiredNotification{TaskID: task.ID, Title: task.Title, Kind: model.NotificationRecurring, Level: model.LevelUrgent}

	if err := d.Fire(context.Background(), n, task); err != nil {
		t.Fatalf("expected dispatch to succeed despite bad action, got %v", err)
	}
	if len(opener.urls) != 1 || opener.urls[0] != "https://ok.example.com" {
		t.Fatalf("expected remaining action to run, got %v", opener.urls)
	}
}

func TestAlertTitleBuckets(t *testing.T) {
	cases := []struct {
		n    model.FiredNotification
		want string
	}{
		{model.FiredNotification{Kind: model.NotificationDueDateBased, DaysUntilDue: 0}, "Due today"},
		{model.FiredNotification{Kind: model.NotificationDueDateBased, DaysUntilDue: 1}, "Due tomorrow"},
		{model.FiredNotification{Kind: model.NotificationDueDateBased, DaysUntilDue: 4}, "Due in 4 days"},
		{model.FiredNotification{Kind: model.NotificationRecurring}, "Recurring reminder"},
		{model.FiredNotification{Kind: model.NotificationNone}, "Task reminder"},
	}
	for _, c := range cases {
		if got := alertTitle(c.n); got != c.want {
			t.Fatalf("alertTitle(%+v) = %q, want %q", c.n, got, c.want)
		}
	}
}
