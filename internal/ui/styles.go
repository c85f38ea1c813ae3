package ui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan, headings
	colorAccent  = lipgloss.Color("#FFD700") // Gold, goals and soft checks
	colorSuccess = lipgloss.Color("#00E676") // Green, completed
	colorDanger  = lipgloss.Color("#FF5252") // Red, errors
	colorMuted   = lipgloss.Color("#8C8C8C") // Gray, de-emphasized
)

// Marks shown for a day's entry.
const (
	markDone    = "✓"
	markSoft    = "◐"
	markMissing = "·"
	markMemo    = "✎"
	barFull     = "█"
	barEmpty    = "░"
	barWidth    = 20
)

var (
	styleHeading = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	styleSoft    = lipgloss.NewStyle().Foreground(colorAccent)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleBold    = lipgloss.NewStyle().Bold(true)
)
