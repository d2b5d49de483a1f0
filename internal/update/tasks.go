package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskping/internal/model"
	"github.com/sandeepkv93/taskping/internal/storage"
	"github.com/sandeepkv93/taskping/internal/views"
)

const repoTimeout = 5 * time.Second

func (m Model) loadTasksCmd() tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), repoTimeout)
		defer cancel()
		rows, err := repo.ListTasks(ctx, storage.TaskListFilter{})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		tasks := make([]model.Task, 0, len(rows))
		for _, row := range rows {
			task, decodeErr := storage.DecodeTask(row)
			if decodeErr != nil {
				continue
			}
			if tags, tagErr := repo.ListTaskTags(ctx, task.ID); tagErr == nil {
				for _, tag := range tags {
					task.Tags = append(task.Tags, tag.Name)
				}
			}
			tasks = append(tasks, task)
		}
		return SetTasksMsg{Tasks: tasks}
	}
}

func (m Model) saveTaskCmd(task model.Task) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		row, err := storage.EncodeTask(task)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), repoTimeout)
		defer cancel()
		if err := repo.UpdateTask(ctx, row); err != nil {
			return AppErrorMsg{Err: err}
		}
		return TaskSavedMsg{ID: task.ID}
	}
}

func (m Model) addTask(title string) (tea.Model, tea.Cmd) {
	title = strings.TrimSpace(title)
	if title == "" {
		m.Status = StatusBar{Text: "task title is empty", IsError: true}
		return m, nil
	}
	task := model.NewTask(title, model.PriorityMedium)
	task.Status = model.TaskStatusTodo
	m.Tasks = append([]model.Task{task}, m.Tasks...)
	m.Cursor = 0
	m.syncSelectedTask()
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", title)}
	if m.repo == nil {
		return m, nil
	}
	repo := m.repo
	return m, func() tea.Msg {
		row, err := storage.EncodeTask(task)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), repoTimeout)
		defer cancel()
		if err := repo.CreateTask(ctx, row); err != nil {
			return AppErrorMsg{Err: err}
		}
		return TaskSavedMsg{ID: task.ID}
	}
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		title := m.quickAddInput.Value()
		m.quickAddInput.SetValue("")
		m.quickAddInput.Blur()
		return m.addTask(title)
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	return m, cmd
}

func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		m.quickAddInput.Focus()
		m.Status = StatusBar{Text: "quick add active, enter to save"}
		return m, nil
	case "esc":
		m.quickAddInput.Blur()
		return m, nil
	case "j", "down":
		if m.Cursor < len(m.Tasks)-1 {
			m.Cursor++
		}
		m.syncSelectedTask()
		return m, nil
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.syncSelectedTask()
		return m, nil
	case "d":
		return m.toggleDone()
	case "e":
		return m.openNotifyEditor()
	case "b":
		return m.openActionEditor()
	}
	return m, nil
}

func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.firedTable, cmd = m.firedTable.Update(msg)
	return m, cmd
}

func (m *Model) selectedTask() *model.Task {
	if m.Cursor < 0 || m.Cursor >= len(m.Tasks) {
		return nil
	}
	return &m.Tasks[m.Cursor]
}

func (m *Model) syncSelectedTask() {
	if task := m.selectedTask(); task != nil {
		m.SelectedTaskID = task.ID
	} else {
		m.SelectedTaskID = ""
	}
}

func (m Model) toggleDone() (tea.Model, tea.Cmd) {
	task := m.selectedTask()
	if task == nil {
		return m, nil
	}
	if task.Status == model.TaskStatusDone {
		task.Status = model.TaskStatusTodo
		task.CompletedAt = nil
	} else {
		now := time.Now().UTC()
		task.Status = model.TaskStatusDone
		task.CompletedAt = &now
	}
	task.UpdatedAt = time.Now().UTC()
	m.Status = StatusBar{Text: fmt.Sprintf("%s -> %s", task.Title, task.Status)}
	if m.repo == nil {
		return m, nil
	}
	return m, m.saveTaskCmd(*task)
}

func (m Model) renderTasksView() string {
	items := make([]views.TaskItemData, 0, len(m.Tasks))
	for _, task := range m.Tasks {
		due := ""
		if task.DueAt != nil {
			due = task.DueAt.Format("2006-01-02 15:04")
		}
		items = append(items, views.TaskItemData{
			ID:           task.ID,
			Title:        task.Title,
			Status:       string(task.Status),
			Priority:     string(task.Priority),
			DueAt:        due,
			Notification: string(task.Notification.Kind),
			Level:        notificationLevelFor(task),
		})
	}
	return views.RenderTaskPanel(views.TaskPanelData{
		QuickAddView: m.quickAddInput.View(),
		ListView:     m.taskList.View(),
		Items:        items,
		SelectedID:   m.SelectedTaskID,
	})
}

func (m Model) renderDetailPane() string {
	task := m.selectedTask()
	if task == nil {
		return views.RenderDetailPanel(views.DetailPanelData{})
	}
	due := ""
	if task.DueAt != nil {
		due = task.DueAt.Format("2006-01-02 15:04")
	}
	md := ""
	if strings.TrimSpace(task.Description) != "" {
		md = views.RenderMarkdown(task.Description)
	}
	m.detailViewport.SetContent(md)
	return views.RenderDetailPanel(views.DetailPanelData{
		SelectedID:   task.ID,
		Title:        task.Title,
		Status:       string(task.Status),
		Priority:     string(task.Priority),
		DueAt:        due,
		Tags:         task.Tags,
		MarkdownView: m.detailViewport.View(),
	})
}

func notificationLevelFor(task model.Task) int {
	if task.Notification.Kind == model.NotificationNone || task.Notification.Kind == "" {
		return 0
	}
	return task.Notification.Level
}
