package update

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskping/internal/model"
	"github.com/sandeepkv93/taskping/internal/views"
)

const (
	fieldKind = iota
	fieldDaysBefore
	fieldTime
	fieldWeekdays
	fieldLevel
	fieldCount
)

func (m Model) openNotifyEditor() (tea.Model, tea.Cmd) {
	task := m.selectedTask()
	if task == nil {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return m, nil
	}
	cfg := task.Notification
	state := NotifyEditorState{
		Active:   true,
		TaskID:   task.ID,
		Kind:     cfg.Kind,
		Level:    cfg.Level,
		Weekdays: make(map[int]bool),
	}
	if state.Kind == "" {
		state.Kind = model.NotificationNone
	}
	if state.Level == 0 {
		state.Level = model.LevelSilent
	}
	if cfg.DaysBefore > 0 {
		state.DaysBefore = strconv.Itoa(cfg.DaysBefore)
	}
	if cfg.TimeOfDay != nil {
		state.TimeText = cfg.TimeOfDay.String()
	}
	for _, day := range cfg.DaysOfWeek {
		state.Weekdays[day] = true
	}
	m.NotifyEditor = state
	m.Status = StatusBar{Text: "editing notification config"}
	return m, nil
}

func (m Model) handleNotifyEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := &m.NotifyEditor
	switch msg.String() {
	case "esc":
		ed.Active = false
		m.Status = StatusBar{Text: "notification edit cancelled"}
		return m, nil
	case "tab":
		ed.FieldIndex = (ed.FieldIndex + 1) % fieldCount
		return m, nil
	case "shift+tab":
		ed.FieldIndex = (ed.FieldIndex + fieldCount - 1) % fieldCount
		return m, nil
	case "enter":
		return m.saveNotifyEditor()
	case "backspace":
		switch ed.FieldIndex {
		case fieldDaysBefore:
			ed.DaysBefore = trimLast(ed.DaysBefore)
		case fieldTime:
			ed.TimeText = trimLast(ed.TimeText)
		}
		return m, nil
	case " ", "space":
		if ed.FieldIndex == fieldKind {
			ed.Kind = nextKind(ed.Kind)
		}
		return m, nil
	}

	if len(msg.Runes) != 1 {
		return m, nil
	}
	r := msg.Runes[0]
	switch ed.FieldIndex {
	case fieldDaysBefore:
		if r >= '0' && r <= '9' && len(ed.DaysBefore) < 3 {
			ed.DaysBefore += string(r)
		}
	case fieldTime:
		if (r >= '0' && r <= '9' || r == ':') && len(ed.TimeText) < 5 {
			ed.TimeText += string(r)
		}
	case fieldWeekdays:
		if r >= '0' && r <= '6' {
			day := int(r - '0')
			ed.Weekdays[day] = !ed.Weekdays[day]
		}
	case fieldLevel:
		if r >= '1' && r <= '3' {
			ed.Level = int(r - '0')
		}
	}
	return m, nil
}

func (m Model) saveNotifyEditor() (tea.Model, tea.Cmd) {
	ed := &m.NotifyEditor
	task := m.taskByID(ed.TaskID)
	if task == nil {
		ed.Active = false
		return m, nil
	}

	cfg := model.NotificationConfig{Kind: ed.Kind, Level: ed.Level}
	if ed.DaysBefore != "" {
		v, err := strconv.Atoi(ed.DaysBefore)
		if err != nil {
			ed.Err = "days before must be a number"
			return m, nil
		}
		cfg.DaysBefore = v
	}
	if strings.TrimSpace(ed.TimeText) != "" {
		tod, err := model.ParseTimeOfDay(ed.TimeText)
		if err != nil {
			ed.Err = "time must be HH:MM"
			return m, nil
		}
		cfg.TimeOfDay = &tod
	}
	days := make([]int, 0, len(ed.Weekdays))
	for day, on := range ed.Weekdays {
		if on {
			days = append(days, day)
		}
	}
	sort.Ints(days)
	cfg.DaysOfWeek = days

	if err := cfg.ValidateFor(task.DueAt); err != nil {
		ed.Err = err.Error()
		return m, nil
	}

	task.Notification = cfg
	task.UpdatedAt = time.Now().UTC()
	ed.Active = false
	ed.Err = ""
	m.Status = StatusBar{Text: "notification config saved"}
	if m.repo == nil {
		return m, nil
	}
	return m, m.saveTaskCmd(*task)
}

func (m *Model) taskByID(id string) *model.Task {
	for i := range m.Tasks {
		if m.Tasks[i].ID == id {
			return &m.Tasks[i]
		}
	}
	return nil
}

func (m Model) renderNotifyEditorIfVisible() string {
	ed := m.NotifyEditor
	if !ed.Active {
		return ""
	}
	days := make([]int, 0, len(ed.Weekdays))
	for day, on := range ed.Weekdays {
		if on {
			days = append(days, day)
		}
	}
	sort.Ints(days)
	daysText, _ := json.Marshal(days)
	return views.RenderNotificationEditor(views.NotificationEditorData{
		Active:     true,
		Kind:       string(ed.Kind),
		DaysBefore: ed.DaysBefore,
		TimeOfDay:  ed.TimeText,
		DaysOfWeek: string(daysText),
		Level:      ed.Level,
		FieldIndex: ed.FieldIndex,
		ErrorText:  ed.Err,
	})
}

func nextKind(kind model.NotificationKind) model.NotificationKind {
	switch kind {
	case model.NotificationNone:
		return model.NotificationDueDateBased
	case model.NotificationDueDateBased:
		return model.NotificationRecurring
	default:
		return model.NotificationNone
	}
}

func trimLast(s string) string {
	if s == "" {
		return s
	}
	return s[:len(s)-1]
}
