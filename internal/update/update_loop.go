package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskping/internal/model"
	"github.com/sandeepkv93/taskping/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.repo != nil {
		cmds = append(cmds, m.loadTasksCmd())
	}
	if m.sweeper != nil {
		cmds = append(cmds, waitForFiredCmd(m.sweeper.C()))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.syncBubbleData()

	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}
		if m.NotifyEditor.Active {
			return m.handleNotifyEditorKey(typed)
		}
		if m.ActionEditor.Active {
			return m.handleActionEditorKey(typed)
		}

		keyStr := typed.String()
		if m.CurrentView == ViewTasks && m.quickAddInput.Focused() && keyStr != "ctrl+c" && keyStr != "esc" {
			return m.handleQuickAddKey(typed)
		}

		switch keyStr {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			return m, nil
		case m.Keys.Log:
			m.CurrentView = ViewLog
			return m, nil
		case m.Keys.CheckNow:
			return m.startCheckNow()
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		if m.CurrentView == ViewTasks {
			return m.handleTasksKey(typed)
		}
		if m.CurrentView == ViewLog {
			return m.handleLogKey(typed)
		}
	case spinner.TickMsg:
		if m.checking {
			var cmd tea.Cmd
			m.sweepSpinner, cmd = m.sweepSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if typed.View == ViewTasks || typed.View == ViewLog {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case SetTasksMsg:
		m.Tasks = typed.Tasks
		if m.Cursor >= len(m.Tasks) {
			m.Cursor = 0
		}
		m.syncSelectedTask()
		return m, nil
	case TaskSavedMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("saved: %s", typed.ID)}
		if m.repo != nil {
			return m, m.loadTasksCmd()
		}
		return m, nil
	case QuickAddTaskMsg:
		return m.addTask(typed.Title)
	case NotificationFiredMsg:
		m.appendFired(typed.Notification)
		m.Status = StatusBar{Text: fmt.Sprintf("notification fired: %s", typed.Notification.Title)}
		if m.sweeper != nil {
			return m, waitForFiredCmd(m.sweeper.C())
		}
		return m, nil
	case CheckNowResultMsg:
		m.checking = false
		if typed.Err != nil {
			m.Status = StatusBar{Text: "check failed: " + typed.Err.Error(), IsError: true}
			return m, nil
		}
		for _, n := range typed.Fired {
			m.appendFired(n)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("manual check complete, %d fired", len(typed.Fired))}
		return m, nil
	case URLTestedMsg:
		m.applyURLTest(typed)
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTasksView()
		rightPane = m.renderDetailPane() +
			m.renderNotifyEditorIfVisible() +
			m.renderActionEditorIfVisible() +
			m.renderCommandPalette() +
			m.renderHelpIfVisible()
	case ViewLog:
		leftPane = m.renderFiredLogView()
		rightPane = m.renderSummaryPane() + m.renderCommandPalette() + m.renderHelpIfVisible()
	}

	notification := ""
	if len(m.FiredLog) > 0 {
		last := m.FiredLog[len(m.FiredLog)-1]
		notification = fmt.Sprintf("last-fired: %s @ %s", last.Notification.Title, last.At.Format("15:04:05"))
	}
	if m.checking {
		notification = joinNonEmpty(notification, "check: "+m.sweepSpinner.View()+" running")
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("taskping | view: %s | selected: %s", m.CurrentView, m.SelectedTaskID),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		IsError:    m.Status.IsError,
		Overlay:    notification,
		Footer: fmt.Sprintf("keys: %s tasks | %s log | %s check-now | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Log, m.Keys.CheckNow, m.Keys.Help, m.Keys.Quit),
	})
}

func (m *Model) appendFired(n model.FiredNotification) {
	m.FiredLog = append(m.FiredLog, FiredEntry{Notification: n, At: time.Now()})
	if len(m.FiredLog) > 50 {
		m.FiredLog = m.FiredLog[len(m.FiredLog)-50:]
	}
}

func waitForFiredCmd(ch <-chan model.FiredNotification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationFiredMsg{Notification: n}
	}
}
