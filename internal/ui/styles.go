package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#38BDF8") // sky
	colorGreen  = lipgloss.Color("#4ADE80")
	colorYellow = lipgloss.Color("#FBBF24")
	colorRed    = lipgloss.Color("#F87171")
	colorViolet = lipgloss.Color("#A78BFA")
	colorSubtle = lipgloss.Color("#94A3B8")
	colorFG     = lipgloss.Color("#E2E8F0")
	colorDim    = lipgloss.Color("#475569")

	styleTitle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	styleSubtitle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	styleDivider = lipgloss.NewStyle().
			Foreground(colorDim)

	styleSelectedItem = lipgloss.NewStyle().
				Foreground(colorYellow).
				Bold(true)

	styleCurrentItem = lipgloss.NewStyle().
				Foreground(colorAccent)

	styleNormalItem = lipgloss.NewStyle().
			Foreground(colorFG)

	styleDimItem = lipgloss.NewStyle().
			Foreground(colorSubtle)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleHint = lipgloss.NewStyle().
			Foreground(colorSubtle)

	styleAILabel = lipgloss.NewStyle().
			Foreground(colorViolet).
			Bold(true)

	styleSyncing = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleInputActive = lipgloss.NewStyle().
				Foreground(colorYellow).
				Bold(true)

	styleSidebar = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(colorDim)

	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorViolet).
				Padding(1, 2)

	styleConfirm = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)
)
