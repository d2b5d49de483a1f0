package update

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskping/internal/model"
	"github.com/sandeepkv93/taskping/internal/scheduler"
	"github.com/sandeepkv93/taskping/internal/views"
)

const checkNowTimeout = 30 * time.Second

func (m Model) startCheckNow() (tea.Model, tea.Cmd) {
	if m.sweeper == nil {
		m.Status = StatusBar{Text: "scheduler not running", IsError: true}
		return m, nil
	}
	if m.checking {
		return m, nil
	}
	m.checking = true
	m.Status = StatusBar{Text: "manual check started"}
	return m, tea.Batch(m.sweepSpinner.Tick, m.checkNowCmd())
}

func (m Model) checkNowCmd() tea.Cmd {
	sweeper := m.sweeper
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), checkNowTimeout)
		defer cancel()
		fired, err := sweeper.CheckNow(ctx)
		return CheckNowResultMsg{Fired: fired, Err: err}
	}
}

func (m Model) renderFiredLogView() string {
	if len(m.FiredLog) == 0 {
		return views.RenderFiredLog(views.FiredLogData{Empty: true})
	}
	rows := make([]table.Row, 0, len(m.FiredLog))
	for i := len(m.FiredLog) - 1; i >= 0; i-- {
		entry := m.FiredLog[i]
		rows = append(rows, table.Row{
			entry.At.Format("15:04:05"),
			entry.Notification.Title,
			string(entry.Notification.Kind),
			strconv.Itoa(entry.Notification.Level),
		})
	}
	m.firedTable.SetRows(rows)
	dropped := uint64(0)
	if m.sweeper != nil {
		dropped = m.sweeper.Dropped()
	}
	return views.RenderFiredLog(views.FiredLogData{
		TableView: m.firedTable.View(),
		Dropped:   dropped,
	})
}

func (m Model) renderSummaryPane() string {
	if m.templates == nil {
		return ""
	}
	now := time.Now()
	ctx := map[string]string{
		"current_date": now.Format("2006-01-02"),
		"current_time": now.Format("15:04"),
		"day_of_week":  now.Weekday().String(),
	}
	done, inProgress, todo, overdue := 0, 0, 0, 0
	for _, task := range m.Tasks {
		switch task.Status {
		case model.TaskStatusDone:
			done++
		case model.TaskStatusInProgress:
			inProgress++
		default:
			todo++
		}
		if task.DueAt != nil && task.Status != model.TaskStatusDone && task.DueAt.Before(now) {
			overdue++
		}
	}
	if len(m.Tasks) > 0 {
		ctx["task_count"] = strconv.Itoa(len(m.Tasks))
		ctx["done_tasks"] = strconv.Itoa(done)
		ctx["in_progress_tasks"] = strconv.Itoa(inProgress)
		ctx["todo_tasks"] = strconv.Itoa(todo)
		if overdue > 0 {
			ctx["overdue_tasks"] = strconv.Itoa(overdue)
		}
	}
	interval := scheduler.DefaultInterval
	if m.sweeper != nil {
		interval = m.sweeper.Interval()
	}
	ctx["next_sweep"] = now.Add(scheduler.DelayToNextBoundary(now, interval)).Format("15:04")

	res, err := m.templates.Generate("day_summary", ctx)
	if err != nil {
		return ""
	}
	return views.RenderSummaryPanel(views.SummaryPanelData{Text: res.Text})
}
