package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theakshaypant/jtk/internal/core"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	fgColor        = lipgloss.Color("#F9FAFB") // Light

	// Layout styles
	AppStyle    = lipgloss.NewStyle().Padding(1, 2)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1)

	// Grid panel
	GridPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)

	// Detail panel and form
	DetailPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primaryColor).Padding(1, 2)

	// Grid cells
	WeekdayHeaderStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	DayNumberStyle     = lipgloss.NewStyle().Foreground(fgColor)
	TodayStyle         = lipgloss.NewStyle().Background(primaryColor).Foreground(fgColor).Bold(true)
	HourStyle          = lipgloss.NewStyle().Foreground(mutedColor)
	NowLineStyle       = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	GridLineStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))

	// Event chips
	SelectedItemStyle = lipgloss.NewStyle().Background(primaryColor).Foreground(fgColor).Bold(true)
	DimmedItemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52525B")).Faint(true)

	// Detail styles
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1)
	LabelStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Width(14)
	ValueStyle = lipgloss.NewStyle().Foreground(fgColor)
	LinkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")).Underline(true)
	HintStyle  = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)

	// Form
	FocusedLabelStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Width(14)
	FormErrorStyle    = lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	// Blocking error banner
	BannerStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(errorColor).Foreground(errorColor).Padding(1, 2)
	StatusStyle = lipgloss.NewStyle().Foreground(secondaryColor)

	// Help bar
	HelpStyle    = lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1)
	HelpKeyStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
)

// eventColors maps tracker colors to terminal colors.
var eventColors = map[core.Color]lipgloss.Color{
	core.ColorBlue:   lipgloss.Color("#3B82F6"),
	core.ColorGreen:  lipgloss.Color("#10B981"),
	core.ColorRed:    lipgloss.Color("#EF4444"),
	core.ColorOrange: lipgloss.Color("#F97316"),
	core.ColorPurple: lipgloss.Color("#8B5CF6"),
}

// EventStyle returns the chip style for an event color.
func EventStyle(c core.Color) lipgloss.Style {
	fg, ok := eventColors[c]
	if !ok {
		fg = eventColors[core.ColorBlue]
	}
	return lipgloss.NewStyle().Foreground(fg)
}
