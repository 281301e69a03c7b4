package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mobil-koeln/navi-cli/internal/location"
	"github.com/mobil-koeln/navi-cli/internal/navigation"
	"go.uber.org/zap"
)

// rows used by everything but the map: header, alert, form panel, map
// border, caption and status bar
const chromeHeight = 13

// Update handles all messages and key events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case routeResultMsg:
		return m.handleRouteResult(msg)

	case refreshTickMsg:
		return m.handleRefreshTick(msg)

	case positionMsg:
		return m.handlePosition(msg)

	case watchStartedMsg:
		return m.handleWatchStarted(msg)

	case watchFixMsg:
		return m.handleWatchFix(msg)

	case spinner.TickMsg:
		if !m.spinning {
			return m, nil
		}
		if m.nav.Pending() == 0 {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Pass remaining messages to the focused textinput
	return m.updateInput(msg)
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusOrigin:
		m.originInput, cmd = m.originInput.Update(msg)
	case focusDestination:
		m.destinationInput, cmd = m.destinationInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	if m.loadErr != nil {
		return m, nil
	}

	mapHeight := m.height - chromeHeight
	if mapHeight < 3 {
		mapHeight = 3
	}
	loaded := m.mapView.SetSize(m.width-2, mapHeight)
	if !loaded || m.source == nil || m.watching || m.tracker.Active() {
		return m, nil
	}

	// first size: the map is ready, start following the device position
	m.watching = true
	return m, startWatch(m.source, m.watchOpts)
}

func (m Model) handleWatchStarted(msg watchStartedMsg) (tea.Model, tea.Cmd) {
	m.watching = false
	if msg.err != nil {
		m.logger.Warn("position watch unavailable", zap.Error(msg.err))
		return m, nil
	}
	m.tracker.Attach(msg.sub)
	return m, waitForFix(msg.sub)
}

func (m Model) handleWatchFix(msg watchFixMsg) (tea.Model, tea.Cmd) {
	// Ignore fixes of a released subscription
	if msg.sub != m.tracker.Subscription() {
		return m, nil
	}
	if !msg.ok {
		m.logger.Info("position watch ended")
		m.tracker.Release()
		return m, nil
	}
	if msg.fix.Err != nil {
		m.logger.Debug("position fix failed", zap.Error(msg.fix.Err))
		return m, waitForFix(msg.sub)
	}

	if m.tracker.Observe(msg.fix.Coord) {
		m.mapView.PanTo(msg.fix.Coord)
	}
	return m, waitForFix(msg.sub)
}

func (m Model) handleRouteResult(msg routeResultMsg) (tea.Model, tea.Cmd) {
	err := m.nav.ApplyRoute(msg.seq, msg.route, msg.err)
	switch {
	case errors.Is(err, navigation.ErrStaleResponse):
		return m, nil
	case err != nil:
		if navigation.IsUserFacing(err) {
			m.alert = err.Error()
		}
		return m, nil
	}

	m.lastUpdate = time.Now()
	m.tracker.Follow(true)

	// While navigating the camera follows the position instead
	if !m.nav.Navigating() {
		if b, ok := m.nav.Route().Bound(); ok {
			m.mapView.Fit(b)
		}
	}
	return m, nil
}

func (m Model) handleRefreshTick(msg refreshTickMsg) (tea.Model, tea.Cmd) {
	// A tick of a retired handle is dropped and not re-armed
	if !m.nav.RefreshDue(msg.id) {
		return m, nil
	}
	handle := *m.nav.Session().Handle

	if m.source == nil {
		m.nav.PositionFailed(msg.id, location.ErrPositionUnavailable)
		return m, refreshTick(handle)
	}
	return m, tea.Batch(
		currentPosition(m.source, handle, m.watchOpts),
		refreshTick(handle),
	)
}

func (m Model) handlePosition(msg positionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// logged by the controller, the next tick retries
		m.nav.PositionFailed(msg.id, msg.err)
		return m, nil
	}

	req, ok := m.nav.RefreshQuery(msg.id, msg.fix.Coord)
	if !ok {
		return m, nil
	}
	if m.tracker.Observe(msg.fix.Coord) {
		m.mapView.PanTo(msg.fix.Coord)
	}
	return m, m.sendRoute(req)
}

// sendRoute runs req and starts the spinner if it is not running yet.
func (m *Model) sendRoute(req navigation.RouteRequest) tea.Cmd {
	cmd := fetchRoute(m.router, req)
	if m.spinning {
		return cmd
	}
	m.spinning = true
	return tea.Batch(cmd, m.spinner.Tick)
}

// direction requests a route for the current field text.
func (m Model) direction() (tea.Model, tea.Cmd) {
	m.nav.SetInputs(m.originInput.Value(), m.destinationInput.Value())
	req, err := m.nav.RequestFromInputs()
	if err != nil {
		m.alert = err.Error()
		return m, nil
	}
	m.alert = ""
	return m, m.sendRoute(req)
}

func (m Model) clearRoute() (tea.Model, tea.Cmd) {
	m.nav.ClearRoute()
	m.tracker.Follow(false)
	m.originInput.SetValue("")
	m.destinationInput.SetValue("")
	m.alert = ""
	m.lastUpdate = time.Time{}
	return m, nil
}

func (m Model) toggleNavigation() (tea.Model, tea.Cmd) {
	if m.nav.Navigating() {
		req, ok := m.nav.StopNavigation()
		if !ok {
			return m, nil
		}
		return m, m.sendRoute(req)
	}

	handle, armed, err := m.nav.StartNavigation()
	if err != nil {
		m.alert = err.Error()
		return m, nil
	}
	if !armed {
		return m, nil
	}
	return m, refreshTick(handle)
}

func (m Model) centerMap() (tea.Model, tea.Cmd) {
	m.mapView.PanTo(m.center)
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.tracker.Release()
	return m, tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}
	}

	if m.loadErr != nil {
		if msg.String() == "q" {
			return m.quit()
		}
		return m, nil
	}

	switch m.focus {
	case focusOrigin, focusDestination:
		return m.handleInputKeys(msg)
	case focusMap:
		return m.handleMapKeys(msg)
	}

	return m, nil
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.direction()

	case "ctrl+x":
		return m.clearRoute()

	case "ctrl+n":
		return m.toggleNavigation()

	case "tab":
		m.setFocus(m.focus + 1)
		return m, nil

	case "shift+tab":
		if m.focus == focusOrigin {
			m.setFocus(focusMap)
		} else {
			m.setFocus(m.focus - 1)
		}
		return m, nil

	case "esc":
		m.setFocus(focusMap)
		return m, nil
	}

	return m.updateInput(msg)
}

func (m Model) handleMapKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()

	case "enter", "d":
		return m.direction()

	case "x":
		return m.clearRoute()

	case "n":
		return m.toggleNavigation()

	case "c":
		return m.centerMap()

	case "+", "=":
		m.mapView.ZoomIn()
		return m, nil

	case "-":
		m.mapView.ZoomOut()
		return m, nil

	case "tab", "/":
		m.setFocus(focusOrigin)
		return m, nil

	case "shift+tab":
		m.setFocus(focusDestination)
		return m, nil
	}

	return m, nil
}

func (m *Model) setFocus(f focusPanel) {
	m.focus = f
	m.originInput.Blur()
	m.destinationInput.Blur()
	switch f {
	case focusOrigin:
		m.originInput.Focus()
	case focusDestination:
		m.destinationInput.Focus()
	}
}
