package tui

import "github.com/charmbracelet/lipgloss"

// Static styles for content elements
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#22C55E")).
			Bold(true).
			Padding(0, 1)

	cellBase = lipgloss.NewStyle().
			Width(3).
			Align(lipgloss.Center).
			Bold(true)

	EmptyCellStyle = cellBase.
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3A3A3C"))

	FocusCellStyle = EmptyCellStyle.
			Underline(true).
			Background(lipgloss.Color("#565758"))

	ShakeCellStyle = cellBase.
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#B91C1C"))

	CorrectCellStyle = cellBase.
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#22C55E"))

	PresentCellStyle = cellBase.
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#EAB308"))

	AbsentCellStyle = cellBase.
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#6B7280"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)
