package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/chomins/autocommit/internal/model"
)

// Color palette.
var (
	colorRed     = lipgloss.Color("#ff5555")
	colorGreen   = lipgloss.Color("#50fa7b")
	colorYellow  = lipgloss.Color("#f1fa8c")
	colorBlue    = lipgloss.Color("#8be9fd")
	colorPurple  = lipgloss.Color("#bd93f9")
	colorOrange  = lipgloss.Color("#ffb86c")
	colorDim     = lipgloss.Color("#6272a4")
	colorBgLight = lipgloss.Color("#343746")
	colorFg      = lipgloss.Color("#f8f8f2")
	colorBorder  = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// File list styles
	fileListStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	fileItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	fileItemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorBorder).
				Bold(true)

	fileItemHighStyle = lipgloss.NewStyle().
				Foreground(colorOrange)

	// Findings pane styles
	findingsPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(0, 1)

	fileHeaderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true).
			Padding(0, 0, 1, 0)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPurple).
				Bold(true)

	findingMessageStyle = lipgloss.NewStyle().
				Foreground(colorFg)

	locationStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(5).
			Align(lipgloss.Right)

	addedLineStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	deletedLineStyle = lipgloss.NewStyle().
				Foreground(colorRed)

	contextLineStyle = lipgloss.NewStyle().
				Foreground(colorFg)

	// Commit confirmation styles
	messageBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGreen).
			Padding(0, 1)

	approveHintStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true)

	abortHintStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	// Help bar
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// categoryStyles colors finding labels by severity of the category.
var categoryStyles = map[model.Category]lipgloss.Style{
	model.CategoryBug:          lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	model.CategorySecurity:     lipgloss.NewStyle().Foreground(colorOrange).Bold(true),
	model.CategoryPerformance:  lipgloss.NewStyle().Foreground(colorYellow),
	model.CategoryArchitecture: lipgloss.NewStyle().Foreground(colorPurple),
	model.CategoryStyle:        lipgloss.NewStyle().Foreground(colorBlue),
	model.CategoryNote:         lipgloss.NewStyle().Foreground(colorDim),
}

func categoryStyle(c model.Category) lipgloss.Style {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(colorFg)
}
