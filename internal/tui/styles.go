package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors matching existing output/colors.go scheme
var (
	colorCyan    = lipgloss.Color("6")  // Cyan - route path, focus
	colorYellow  = lipgloss.Color("3")  // Yellow - position, loading
	colorRed     = lipgloss.Color("1")  // Red - destination, errors
	colorGreen   = lipgloss.Color("2")  // Green - origin, navigating
	colorMagenta = lipgloss.Color("5")  // Magenta - coordinates
	colorWhite   = lipgloss.Color("15") // White - text
	colorGray    = lipgloss.Color("8")  // Gray - muted text
)

// Text styles
var (
	styleDistance = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleDuration = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleCoord    = lipgloss.NewStyle().Foreground(colorMagenta)
	styleMuted    = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader   = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleLabel    = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// Panel border styles
var (
	stylePanelFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorCyan)

	stylePanelNormal = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorGray)
)

// Navigation badge in the header
var styleNavigating = lipgloss.NewStyle().
	Foreground(lipgloss.Color("0")).
	Background(colorGreen).
	Bold(true).
	Padding(0, 1)

// Alert banner, dismissed with esc
var styleAlert = lipgloss.NewStyle().
	Foreground(lipgloss.Color("15")).
	Background(colorRed).
	Bold(true).
	Padding(0, 1)

// Status bar at the bottom
var styleStatusBar = lipgloss.NewStyle().
	Foreground(colorGray).
	Background(lipgloss.Color("0"))

// Loading indicator
var styleLoading = lipgloss.NewStyle().Foreground(colorYellow).Italic(true)

// Error text
var styleError = lipgloss.NewStyle().Foreground(colorRed)

// Logo/brand style
var styleLogo = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
