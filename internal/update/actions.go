package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskping/internal/model"
	"github.com/sandeepkv93/taskping/internal/views"
)

func (m Model) openActionEditor() (tea.Model, tea.Cmd) {
	task := m.selectedTask()
	if task == nil {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return m, nil
	}
	m.ActionEditor = ActionEditorState{
		Active:   true,
		TaskID:   task.ID,
		Settings: task.BrowserConfig,
	}
	m.Status = StatusBar{Text: "editing browser actions"}
	return m, nil
}

func (m Model) handleActionEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := &m.ActionEditor

	if ed.Adding {
		if msg.Type == tea.KeyEnter {
			return m.commitNewAction()
		}
		if msg.String() == "esc" {
			ed.Adding = false
			m.urlInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.urlInput, cmd = m.urlInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		return m.closeActionEditor()
	case "a":
		if len(ed.Settings.Actions) >= model.MaxBrowserActions {
			m.Status = StatusBar{Text: fmt.Sprintf("action limit reached (%d)", model.MaxBrowserActions), IsError: true}
			return m, nil
		}
		ed.Adding = true
		ed.TestResult = ""
		ed.Suggestions = nil
		m.urlInput.SetValue("")
		m.urlInput.Focus()
		return m, nil
	case "x":
		if action := ed.currentAction(); action != nil {
			ed.Settings.RemoveAction(action.ID)
			if ed.Cursor >= len(ed.Settings.Actions) && ed.Cursor > 0 {
				ed.Cursor--
			}
		}
		return m, nil
	case " ", "space":
		if action := ed.currentAction(); action != nil {
			for i := range ed.Settings.Actions {
				if ed.Settings.Actions[i].ID == action.ID {
					ed.Settings.Actions[i].Enabled = !ed.Settings.Actions[i].Enabled
				}
			}
		}
		return m, nil
	case "E":
		ed.Settings.Enabled = !ed.Settings.Enabled
		return m, nil
	case "j", "down":
		if ed.Cursor < len(ed.Settings.Actions)-1 {
			ed.Cursor++
		}
		return m, nil
	case "k", "up":
		if ed.Cursor > 0 {
			ed.Cursor--
		}
		return m, nil
	case "J":
		m.moveAction(1)
		return m, nil
	case "K":
		m.moveAction(-1)
		return m, nil
	case "t":
		return m.testCurrentAction()
	}
	return m, nil
}

func (m Model) commitNewAction() (tea.Model, tea.Cmd) {
	ed := &m.ActionEditor
	raw := strings.TrimSpace(m.urlInput.Value())
	ed.Adding = false
	m.urlInput.Blur()
	if raw == "" {
		return m, nil
	}

	result := m.validator.Validate(raw)
	if !result.Valid {
		ed.TestResult = "invalid: " + result.Reason
		ed.Suggestions = m.validator.SuggestCorrections(raw)
		return m, nil
	}

	label := result.Host
	action := model.NewBrowserAction(label, raw, len(ed.Settings.Actions))
	if err := ed.Settings.AddAction(action); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	ed.TestResult = ""
	ed.Suggestions = nil
	m.Status = StatusBar{Text: "action added: " + label}
	return m, nil
}

func (m *Model) moveAction(delta int) {
	ed := &m.ActionEditor
	target := ed.Cursor + delta
	if ed.Cursor < 0 || ed.Cursor >= len(ed.Settings.Actions) || target < 0 || target >= len(ed.Settings.Actions) {
		return
	}
	actions := ed.Settings.Actions
	actions[ed.Cursor].Order, actions[target].Order = actions[target].Order, actions[ed.Cursor].Order
	actions[ed.Cursor], actions[target] = actions[target], actions[ed.Cursor]
	ed.Cursor = target
}

func (m Model) testCurrentAction() (tea.Model, tea.Cmd) {
	ed := &m.ActionEditor
	action := ed.currentAction()
	if action == nil {
		return m, nil
	}
	return m, m.testURLCmd(*action)
}

func (m Model) testURLCmd(action model.BrowserAction) tea.Cmd {
	validator := m.validator
	executor := m.executor
	return func() tea.Msg {
		msg := URLTestedMsg{URL: action.URL}
		msg.Result = validator.Validate(action.URL)
		if !msg.Result.Valid {
			msg.Suggestions = validator.SuggestCorrections(action.URL)
			return msg
		}
		if executor != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			probe := action
			probe.Enabled = true
			msg.OpenErr = executor.RunOne(ctx, probe)
		}
		return msg
	}
}

func (m *Model) applyURLTest(msg URLTestedMsg) {
	ed := &m.ActionEditor
	if !msg.Result.Valid {
		ed.TestResult = "invalid: " + msg.Result.Reason
		ed.Suggestions = msg.Suggestions
		return
	}
	if msg.OpenErr != nil {
		ed.TestResult = "open failed: " + msg.OpenErr.Error()
		ed.Suggestions = nil
		return
	}
	ed.TestResult = fmt.Sprintf("ok (%s://%s)", msg.Result.Protocol, msg.Result.Host)
	ed.Suggestions = nil
}

func (m Model) closeActionEditor() (tea.Model, tea.Cmd) {
	ed := &m.ActionEditor
	ed.Active = false
	task := m.taskByID(ed.TaskID)
	if task == nil {
		return m, nil
	}
	task.BrowserConfig = ed.Settings
	task.UpdatedAt = time.Now().UTC()
	m.Status = StatusBar{Text: "browser actions saved"}
	if m.repo == nil {
		return m, nil
	}
	return m, m.saveTaskCmd(*task)
}

func (s *ActionEditorState) currentAction() *model.BrowserAction {
	if s.Cursor < 0 || s.Cursor >= len(s.Settings.Actions) {
		return nil
	}
	return &s.Settings.Actions[s.Cursor]
}

func (m Model) renderActionEditorIfVisible() string {
	ed := m.ActionEditor
	if !ed.Active {
		return ""
	}
	items := make([]views.ActionItemData, 0, len(ed.Settings.Actions))
	for _, a := range ed.Settings.Actions {
		items = append(items, views.ActionItemData{
			ID:      a.ID,
			Label:   a.Label,
			URL:     a.URL,
			Enabled: a.Enabled,
			Order:   a.Order,
		})
	}
	inputView := ""
	if ed.Adding {
		inputView = m.urlInput.View()
	}
	return views.RenderActionEditor(views.ActionEditorData{
		Active:      true,
		SetEnabled:  ed.Settings.Enabled,
		Items:       items,
		Cursor:      ed.Cursor,
		InputView:   inputView,
		TestResult:  ed.TestResult,
		Suggestions: ed.Suggestions,
	})
}
