package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
)

// syncBubbleData mirrors the domain state into the bubble components
// after every update, so their views never show stale items.
func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Tasks))
	for _, task := range m.Tasks {
		desc := string(task.Status)
		if task.Notification.Kind != "" && task.Notification.Kind != "none" {
			desc = fmt.Sprintf("%s | notify:%s L%d", desc, task.Notification.Kind, task.Notification.Level)
		}
		items = append(items, listItem{title: task.Title, description: desc})
	}
	m.taskList.SetItems(items)
	if m.Cursor >= 0 && m.Cursor < len(items) {
		m.taskList.Select(m.Cursor)
	}
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
