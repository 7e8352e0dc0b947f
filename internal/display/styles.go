package display

import "github.com/charmbracelet/lipgloss"

// Slate and rose palette of the mission log.
var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f43f5e")).
			Bold(true)

	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("#334155")).
			PaddingRight(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e2e8f0"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748b")).
			Bold(true).
			MarginTop(1)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cbd5e1"))

	activeItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fecdd3")).
			Background(lipgloss.Color("#4c0519")).
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748b"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d399"))

	alarmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			Italic(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))
)
