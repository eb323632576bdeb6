package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Amber     = lipgloss.Color("#E5A00D")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
)

var (
	activePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber)

	inactivePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)

	titleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	cursorStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(Green)

	errorStyle = lipgloss.NewStyle().
			Foreground(Red)

	transportStyle = lipgloss.NewStyle().
			Foreground(LightGray)
)
