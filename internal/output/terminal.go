package output

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mobil-koeln/navi-cli/internal/models"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// WatchScreen is the full-screen display of `route --watch`: a header
// followed by one line per refresh.
type WatchScreen struct {
	w      io.Writer
	colors *Colors
	prev   *models.Route
	lines  int
}

// NewWatchScreen creates a screen writing to w
func NewWatchScreen(w io.Writer, c *Colors) *WatchScreen {
	return &WatchScreen{w: w, colors: colorsOrPlain(c)}
}

// Begin clears the terminal, hides the cursor and prints the header
func (s *WatchScreen) Begin(destination string, interval time.Duration) {
	_, _ = fmt.Fprint(s.w, clearScreen+hideCursor)
	_, _ = fmt.Fprintf(s.w, "Navigating to %s | Refresh every %s | Press Ctrl+C to exit\n\n",
		s.colors.Place("%s", destination), interval)
}

// Route prints a refresh line with the duration change since the last one
func (s *WatchScreen) Route(at time.Time, origin string, route *models.Route) {
	RenderRefresh(s.w, at, origin, route, s.prev, s.colors)
	s.prev = route
	s.lines++
}

// Skipped prints a refresh that got no position or no route
func (s *WatchScreen) Skipped(at time.Time, err error) {
	_, _ = fmt.Fprintf(s.w, "%s  %s %v\n", s.colors.Muted(at.Format("15:04:05")), s.colors.Error("skipped:"), err)
	s.lines++
}

// Lines returns the number of refresh lines printed
func (s *WatchScreen) Lines() int {
	return s.lines
}

// End prints the closing message and restores the cursor
func (s *WatchScreen) End() {
	_, _ = fmt.Fprint(s.w, "\nNavigation ended.\n"+showCursor)
}

// InterruptSignals returns a channel that receives interrupt signals
func InterruptSignals() chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	return sigChan
}
