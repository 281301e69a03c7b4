package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mobil-koeln/navi-cli/internal/location"
	"github.com/mobil-koeln/navi-cli/internal/navigation"
)

const apiTimeout = 10 * time.Second

// fetchRoute returns a tea.Cmd that runs a directions request.
func fetchRoute(router navigation.Router, req navigation.RouteRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		route, err := router.Directions(ctx, req.Query)
		return routeResultMsg{
			seq:   req.Seq,
			route: route,
			err:   err,
		}
	}
}

// refreshTick returns a tea.Cmd that fires once after the handle's interval.
func refreshTick(handle navigation.RefreshHandle) tea.Cmd {
	return tea.Tick(handle.Interval, func(time.Time) tea.Msg {
		return refreshTickMsg{id: handle.ID}
	})
}

// currentPosition returns a tea.Cmd that reads one position for a refresh tick.
func currentPosition(source location.Source, handle navigation.RefreshHandle, opts location.Options) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Timeout+time.Second)
			defer cancel()
		}

		fix, err := source.CurrentPosition(ctx, opts)
		if err == nil && fix.Err != nil {
			err = fix.Err
		}
		return positionMsg{id: handle.ID, fix: fix, err: err}
	}
}

// startWatch returns a tea.Cmd that opens a continuous position stream.
// The subscription outlives the command; the model releases it.
func startWatch(source location.Source, opts location.Options) tea.Cmd {
	return func() tea.Msg {
		sub, err := source.Watch(context.Background(), opts)
		return watchStartedMsg{sub: sub, err: err}
	}
}

// waitForFix returns a tea.Cmd that blocks for the next fix on sub.
func waitForFix(sub *location.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		fix, ok := <-sub.C
		return watchFixMsg{sub: sub, fix: fix, ok: ok}
	}
}
