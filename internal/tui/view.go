package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading maps..."
	}

	header := m.renderHeader()
	statusBar := m.renderStatusBar()

	if m.loadErr != nil {
		body := styleError.Render("Error loading maps: " + m.loadErr.Error())
		return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", statusBar)
	}

	alert := m.renderAlert()
	form := m.renderForm()
	mapPanel := m.renderMapPanel()

	return lipgloss.JoinVertical(lipgloss.Left, header, alert, form, mapPanel, statusBar)
}

// renderHeader renders the brand name and the navigation state.
func (m Model) renderHeader() string {
	title := styleLogo.Render("navi") + styleMuted.Render(" live navigation")

	var state string
	switch {
	case m.nav.Navigating():
		state = styleNavigating.Render("NAVIGATING")
	case m.spinning:
		state = m.spinner.View() + styleLoading.Render(" Routing...")
	}
	if state == "" {
		return title
	}

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(state)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + state
}

// renderAlert renders the alert banner, or an empty line.
func (m Model) renderAlert() string {
	if m.alert == "" {
		return ""
	}
	return styleAlert.Render(truncate(m.alert, m.width-14)) + styleMuted.Render("  esc:dismiss")
}

// renderForm renders the origin and destination inputs with the route summary.
func (m Model) renderForm() string {
	originBorder := styleLabel
	destinationBorder := styleLabel
	if m.focus == focusOrigin {
		originBorder = originBorder.Foreground(colorCyan)
	}
	if m.focus == focusDestination {
		destinationBorder = destinationBorder.Foreground(colorCyan)
	}

	var b strings.Builder
	b.WriteString(originBorder.Render("From") + m.originInput.View())
	b.WriteString("\n")
	b.WriteString(destinationBorder.Render("To") + m.destinationInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderSummary())

	border := stylePanelNormal
	if m.focus != focusMap {
		border = stylePanelFocused
	}
	return border.Width(m.width - 2).Render(b.String())
}

// renderSummary renders the distance and duration of the displayed route.
func (m Model) renderSummary() string {
	if m.nav.Route() == nil {
		return styleMuted.Render("Enter a location and destination, then press Enter")
	}

	parts := []string{
		styleHeader.Render("Distance: ") + styleDistance.Render(m.nav.DistanceText()),
		styleHeader.Render("Time: ") + styleDuration.Render(m.nav.DurationText()),
	}
	if pos, ok := m.tracker.Latest(); ok {
		parts = append(parts, styleHeader.Render("Position: ")+styleCoord.Render(pos.String()))
	}
	if !m.lastUpdate.IsZero() {
		parts = append(parts, styleMuted.Render("updated "+m.lastUpdate.Format("15:04:05")))
	}
	return strings.Join(parts, "   ")
}

// renderMapPanel renders the map with its markers.
func (m Model) renderMapPanel() string {
	path := m.nav.Route().Path()

	markers := []mapMarker{{at: m.center.Point(), ch: '▼', ctype: mapCellCenter}}
	if leg, ok := m.nav.Route().FirstLeg(); ok {
		markers = append(markers,
			mapMarker{at: leg.Start.Point(), ch: 'A', ctype: mapCellStart},
			mapMarker{at: leg.End.Point(), ch: 'B', ctype: mapCellEnd},
		)
	}
	if pos, ok := m.tracker.Latest(); ok {
		markers = append(markers, mapMarker{at: pos.Point(), ch: '◉', ctype: mapCellPosition})
	}

	content := m.mapView.Render(path, markers)
	caption := styleMuted.Render(fmt.Sprintf("%s  z%d", m.mapView.Center(), m.mapView.zoom))

	border := stylePanelNormal
	if m.focus == focusMap {
		border = stylePanelFocused
	}
	return border.Width(m.width - 2).Render(content) + "\n" + caption
}

// renderStatusBar renders context-aware keyboard hints at the bottom.
func (m Model) renderStatusBar() string {
	var hints string
	switch {
	case m.loadErr != nil:
		hints = "q:quit"
	case m.focus == focusMap:
		hints = "Enter:direction  x:clear  n:" + m.navigationHint() + "  c:center  +/-:zoom  Tab:inputs  q:quit"
	default:
		hints = "Enter:direction  Ctrl+X:clear  Ctrl+N:" + m.navigationHint() + "  Tab:next  Esc:map  Ctrl+C:quit"
	}

	return styleStatusBar.Width(m.width).Render(" " + hints)
}

func (m Model) navigationHint() string {
	if m.nav.Navigating() {
		return "stop"
	}
	return "navigate"
}

// truncate truncates a string to the given width.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-1] + "~"
}
