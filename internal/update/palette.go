package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskping/internal/commands"
	"github.com/sandeepkv93/taskping/internal/model"
	"github.com/sandeepkv93/taskping/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Palette = CommandPaletteState{}
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case tea.KeyEnter:
		input := m.commandInput.Value()
		m.Palette = CommandPaletteState{}
		m.commandInput.Blur()
		m.commandInput.SetValue("")
		return m.runPaletteCommand(input)
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) runPaletteCommand(input string) (tea.Model, tea.Cmd) {
	cmd, err := commands.Parse(input)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var followup tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			next, c := m.addTask(a.Title)
			m = next.(Model)
			followup = c
			return commands.Result{Message: "added " + a.Title}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			task := m.taskByTarget(a.Target)
			if task == nil {
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: "no task matches " + a.Target,
				}
			}
			now := time.Now().UTC()
			task.Status = model.TaskStatusDone
			task.CompletedAt = &now
			task.UpdatedAt = now
			if m.repo != nil {
				followup = m.saveTaskCmd(*task)
			}
			return commands.Result{Message: "done: " + task.Title}, nil
		},
		Check: func() (commands.Result, error) {
			next, c := m.startCheckNow()
			m = next.(Model)
			followup = c
			return commands.Result{Message: m.Status.Text}, nil
		},
		Level: func(a commands.LevelArgs) (commands.Result, error) {
			task := m.taskByTarget(a.Target)
			if task == nil {
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: "no task matches " + a.Target,
				}
			}
			task.Notification.Level = a.Level
			task.UpdatedAt = time.Now().UTC()
			if m.repo != nil {
				followup = m.saveTaskCmd(*task)
			}
			return commands.Result{Message: fmt.Sprintf("level %d: %s", a.Level, task.Title)}, nil
		},
		Test: func(a commands.TestArgs) (commands.Result, error) {
			result := m.validator.Validate(a.URL)
			if !result.Valid {
				suggestions := m.validator.SuggestCorrections(a.URL)
				msg := "invalid: " + result.Reason
				if len(suggestions) > 0 {
					msg += " (try " + strings.Join(suggestions, ", ") + ")"
				}
				return commands.Result{Message: msg}, nil
			}
			return commands.Result{Message: fmt.Sprintf("valid %s://%s", result.Protocol, result.Host)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, followup
	}
	if res.Message != "" {
		m.Status = StatusBar{Text: res.Message}
	}
	return m, followup
}

// taskByTarget resolves a palette target: exact id first, then
// case-insensitive title prefix.
func (m *Model) taskByTarget(target string) *model.Task {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	if task := m.taskByID(target); task != nil {
		return task
	}
	lower := strings.ToLower(target)
	for i := range m.Tasks {
		if strings.HasPrefix(strings.ToLower(m.Tasks[i].Title), lower) {
			return &m.Tasks[i]
		}
	}
	return nil
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}
