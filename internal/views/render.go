package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// AppData carries everything the frame needs for one paint: the title
// row, the two content columns, and the rows below them. Overlay holds
// transient lines (last fired notification, a running check) and is
// boxed so it stands apart from the status line.
type AppData struct {
	Header     string
	LeftPane   string
	RightPane  string
	StatusLine string
	IsError    bool
	Overlay    string
	Footer     string
}

const (
	listPaneWidth   = 62
	detailPaneWidth = 54
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	overlayStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Foreground(lipgloss.Color("11"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderApp(data AppData) string {
	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Width(listPaneWidth).Render(data.LeftPane),
		panelStyle.Width(detailPaneWidth).Render(data.RightPane),
	)

	style := statusStyle
	if data.IsError {
		style = statusErrStyle
	}

	rows := []string{
		headerStyle.Render(data.Header),
		columns,
		style.Render(data.StatusLine),
	}
	if data.Overlay != "" {
		rows = append(rows, overlayStyle.Render(data.Overlay))
	}
	if data.Footer != "" {
		rows = append(rows, footerStyle.Render(data.Footer))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
