package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/taskping/internal/browser"
	"github.com/sandeepkv93/taskping/internal/model"
	"github.com/sandeepkv93/taskping/internal/scheduler"
	"github.com/sandeepkv93/taskping/internal/storage"
	"github.com/sandeepkv93/taskping/internal/template"
	"github.com/sandeepkv93/taskping/internal/urlcheck"
)

type View string

const (
	ViewTasks View = "Tasks"
	ViewLog   View = "Log"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks    string
	Log      string
	CheckNow string
	Help     string
	Quit     string
}

type FiredEntry struct {
	Notification model.FiredNotification
	At           time.Time
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// NotifyEditorState is the per-task notification config overlay. Field
// order: type, days-before, time, weekdays, level.
type NotifyEditorState struct {
	Active     bool
	TaskID     string
	Kind       model.NotificationKind
	DaysBefore string
	TimeText   string
	Weekdays   map[int]bool
	Level      int
	FieldIndex int
	Err        string
}

// ActionEditorState is the per-task browser action overlay.
type ActionEditorState struct {
	Active      bool
	TaskID      string
	Settings    model.BrowserActionSettings
	Cursor      int
	Adding      bool
	TestResult  string
	Suggestions []string
}

type Model struct {
	CurrentView    View
	SelectedTaskID string
	Tasks          []model.Task
	Cursor         int
	FiredLog       []FiredEntry
	Palette        CommandPaletteState
	NotifyEditor   NotifyEditorState
	ActionEditor   ActionEditorState
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	repo      storage.Repository
	sweeper   *scheduler.Sweeper
	validator *urlcheck.Validator
	executor  *browser.Executor
	templates *template.Registry
	log       logrus.FieldLogger

	// Bubble components used for rich TUI controls
	taskList       list.Model
	firedTable     table.Model
	quickAddInput  textinput.Model
	commandInput   textinput.Model
	urlInput       textinput.Model
	notesArea      textarea.Model
	sweepSpinner   spinner.Model
	helpModel      help.Model
	detailViewport viewport.Model
	checking       bool
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type SetTasksMsg struct {
	Tasks []model.Task
}

type TaskSavedMsg struct {
	ID string
}

type QuickAddTaskMsg struct {
	Title string
}

type NotificationFiredMsg struct {
	Notification model.FiredNotification
}

type CheckNowResultMsg struct {
	Fired []model.FiredNotification
	Err   error
}

type URLTestedMsg struct {
	URL         string
	Result      urlcheck.ValidationResult
	Suggestions []string
	OpenErr     error
}

func NewModel() Model {
	m := Model{
		CurrentView: ViewTasks,
		Keys: GlobalKeyMap{
			Tasks:    "1",
			Log:      "2",
			CheckNow: "c",
			Help:     "?",
			Quit:     "q",
		},
		validator: urlcheck.NewValidator(),
		templates: template.NewRegistry(),
		log:       logrus.StandardLogger(),
		NotifyEditor: NotifyEditorState{
			Weekdays: make(map[int]bool),
		},
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

// Deps carries the wired collaborators for the real program. Any nil
// field keeps the NewModel default, which lets tests run without them.
type Deps struct {
	Repo      storage.Repository
	Sweeper   *scheduler.Sweeper
	Validator *urlcheck.Validator
	Executor  *browser.Executor
	Templates *template.Registry
	Log       logrus.FieldLogger
}

func NewModelWithDeps(deps Deps) Model {
	m := NewModel()
	if deps.Repo != nil {
		m.repo = deps.Repo
	}
	if deps.Sweeper != nil {
		m.sweeper = deps.Sweeper
	}
	if deps.Validator != nil {
		m.validator = deps.Validator
	}
	if deps.Executor != nil {
		m.executor = deps.Executor
	}
	if deps.Templates != nil {
		m.templates = deps.Templates
	}
	if deps.Log != nil {
		m.log = deps.Log
	}
	return m
}

func (m *Model) initBubbleComponents() {
	delegate := list.NewDefaultDelegate()
	m.taskList = list.New(nil, delegate, 56, 12)
	m.taskList.SetShowTitle(false)
	m.taskList.SetShowHelp(false)
	m.taskList.SetShowStatusBar(false)

	m.firedTable = table.New(
		table.WithColumns([]table.Column{
			{Title: "When", Width: 8},
			{Title: "Task", Width: 26},
			{Title: "Kind", Width: 14},
			{Title: "Level", Width: 5},
		}),
		table.WithHeight(10),
	)

	m.quickAddInput = textinput.New()
	m.quickAddInput.Placeholder = "new task title"
	m.quickAddInput.CharLimit = 200

	m.commandInput = textinput.New()
	m.commandInput.Placeholder = "add | done | check | level | test"
	m.commandInput.CharLimit = 200

	m.urlInput = textinput.New()
	m.urlInput.Placeholder = "https://example.com"
	m.urlInput.CharLimit = 2048

	m.notesArea = textarea.New()
	m.notesArea.Placeholder = "description"

	m.sweepSpinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.helpModel = help.New()
	m.detailViewport = viewport.New(50, 10)
}
