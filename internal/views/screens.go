package views

import (
	"fmt"
	"strings"
)

type TaskItemData struct {
	ID           string
	Title        string
	Status       string
	Priority     string
	DueAt        string
	Notification string
	Level        int
}

type TaskPanelData struct {
	QuickAddView string
	ListView     string
	Items        []TaskItemData
	SelectedID   string
}

type DetailPanelData struct {
	SelectedID   string
	Title        string
	Status       string
	Priority     string
	DueAt        string
	Tags         []string
	MarkdownView string
}

type NotificationEditorData struct {
	Active     bool
	Kind       string
	DaysBefore string
	TimeOfDay  string
	DaysOfWeek string
	Level      int
	FieldIndex int
	ErrorText  string
}

type ActionItemData struct {
	ID      string
	Label   string
	URL     string
	Enabled bool
	Order   int
}

type ActionEditorData struct {
	Active      bool
	SetEnabled  bool
	Items       []ActionItemData
	Cursor      int
	InputView   string
	TestResult  string
	Suggestions []string
}

type FiredLogData struct {
	TableView string
	Dropped   uint64
	Empty     bool
}

type SummaryPanelData struct {
	Text string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTaskPanel(data TaskPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	b.WriteString(data.QuickAddView + "\n")
	b.WriteString("actions: [enter]add [j/k]move [d]done [e]notify [b]actions [c]check-now\n")
	b.WriteString(data.ListView + "\n")
	for _, item := range data.Items {
		cursor := " "
		if data.SelectedID == item.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s [%s/%s] %s", cursor, levelBadge(item.Level), item.Status, item.Priority, item.Title))
		if item.DueAt != "" {
			b.WriteString(" due:" + item.DueAt)
		}
		if item.Notification != "" && item.Notification != "none" {
			b.WriteString(" notify:" + item.Notification)
		}
		b.WriteString("\n")
	}
	if len(data.Items) == 0 {
		b.WriteString("  (no tasks)\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderDetailPanel(data DetailPanelData) string {
	if strings.TrimSpace(data.SelectedID) == "" {
		return "detail:\n(no selection)"
	}
	tags := strings.Join(data.Tags, ",")
	return fmt.Sprintf("detail:\nid: %s\ntitle: %s\nstatus: %s\npriority: %s\ndue: %s\ntags: %s\n\n%s",
		data.SelectedID,
		data.Title,
		data.Status,
		data.Priority,
		data.DueAt,
		tags,
		data.MarkdownView,
	)
}

func RenderNotificationEditor(data NotificationEditorData) string {
	if !data.Active {
		return ""
	}
	fields := []struct {
		name  string
		value string
	}{
		{"type", data.Kind},
		{"days-before", data.DaysBefore},
		{"time", data.TimeOfDay},
		{"weekdays", data.DaysOfWeek},
		{"level", fmt.Sprintf("%d %s", data.Level, levelName(data.Level))},
	}
	var b strings.Builder
	b.WriteString("\nnotification-editor:\n")
	b.WriteString("keys: [tab]field [space/digits]edit [enter]save [esc]close\n")
	for i, f := range fields {
		marker := " "
		if i == data.FieldIndex {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", marker, f.name, f.value))
	}
	if data.ErrorText != "" {
		b.WriteString("error: " + data.ErrorText + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderActionEditor(data ActionEditorData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nbrowser-actions:\n")
	state := "off"
	if data.SetEnabled {
		state = "on"
	}
	b.WriteString(fmt.Sprintf("set: %s (max 5)\n", state))
	b.WriteString("keys: [a]add [x]delete [space]toggle [J/K]reorder [t]test [E]set-on/off [esc]close\n")
	if len(data.Items) == 0 {
		b.WriteString("  (no actions)\n")
	}
	for i, item := range data.Items {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		mark := "[ ]"
		if item.Enabled {
			mark = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s #%d %s %s\n", cursor, mark, item.Order, item.Label, item.URL))
	}
	if data.InputView != "" {
		b.WriteString("url: " + data.InputView + "\n")
	}
	if data.TestResult != "" {
		b.WriteString("test: " + data.TestResult + "\n")
	}
	for _, s := range data.Suggestions {
		b.WriteString("suggest: " + s + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderFiredLog(data FiredLogData) string {
	var b strings.Builder
	b.WriteString("fired-notifications:\n")
	if data.Empty {
		b.WriteString("(none yet; next sweep lands on a quarter-hour boundary)")
		return b.String()
	}
	b.WriteString(data.TableView)
	if data.Dropped > 0 {
		b.WriteString(fmt.Sprintf("\ndropped: %d (observer lagged)", data.Dropped))
	}
	return strings.TrimSpace(b.String())
}

func RenderSummaryPanel(data SummaryPanelData) string {
	if strings.TrimSpace(data.Text) == "" {
		return ""
	}
	return "\nsummary:\n" + data.Text
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func levelBadge(level int) string {
	switch level {
	case 3:
		return "[URGENT]"
	case 2:
		return "[SOUND]"
	case 1:
		return "[QUIET]"
	default:
		return "[  -  ]"
	}
}

func levelName(level int) string {
	switch level {
	case 3:
		return "(alert+sound+focus)"
	case 2:
		return "(alert+sound)"
	default:
		return "(alert)"
	}
}
