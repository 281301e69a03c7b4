package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode represents the color output mode
type ColorMode int

const (
	// ColorAuto enables colors if output is a TTY
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever disables colors
	ColorNever
)

// Colors holds the color functions for different output types
type Colors struct {
	Distance func(format string, a ...interface{}) string
	Duration func(format string, a ...interface{}) string
	Slower   func(format string, a ...interface{}) string
	Faster   func(format string, a ...interface{}) string
	Place    func(format string, a ...interface{}) string
	Coord    func(format string, a ...interface{}) string
	Warning  func(format string, a ...interface{}) string
	Error    func(format string, a ...interface{}) string
	Header   func(format string, a ...interface{}) string
	Muted    func(format string, a ...interface{}) string
}

// NewColors creates a new Colors instance based on the color mode
func NewColors(mode ColorMode) *Colors {
	useColors := false
	switch mode {
	case ColorAlways:
		useColors = true
		color.NoColor = false // Force colors on
	case ColorNever:
		useColors = false
	case ColorAuto:
		useColors = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	if !useColors {
		noColor := func(format string, a ...interface{}) string {
			if len(a) == 0 {
				return format
			}
			return color.New().Sprintf(format, a...)
		}
		return &Colors{
			Distance: noColor,
			Duration: noColor,
			Slower:   noColor,
			Faster:   noColor,
			Place:    noColor,
			Coord:    noColor,
			Warning:  noColor,
			Error:    noColor,
			Header:   noColor,
			Muted:    noColor,
		}
	}

	return &Colors{
		Distance: color.New(color.FgCyan, color.Bold).SprintfFunc(),
		Duration: color.New(color.FgWhite, color.Bold).SprintfFunc(),
		Slower:   color.New(color.FgRed, color.Bold).SprintfFunc(),
		Faster:   color.New(color.FgGreen).SprintfFunc(),
		Place:    color.New(color.FgWhite).SprintfFunc(),
		Coord:    color.New(color.FgMagenta).SprintfFunc(),
		Warning:  color.New(color.FgYellow).SprintfFunc(),
		Error:    color.New(color.FgRed, color.Bold).SprintfFunc(),
		Header:   color.New(color.FgWhite, color.Bold).SprintfFunc(),
		Muted:    color.New(color.FgHiBlack).SprintfFunc(),
	}
}

// FormatDelta formats the change of travel time between two refreshes
// (fixed 7-char width). Longer is red, shorter is green.
func (c *Colors) FormatDelta(deltaSeconds int) string {
	minutes := deltaSeconds / 60
	if minutes == 0 {
		return "       " // 7 spaces for alignment
	}
	if minutes > 0 {
		return c.Slower("%+4dmin", minutes)
	}
	return c.Faster("%+4dmin", minutes)
}

// ParseColorMode parses a color mode string
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}
