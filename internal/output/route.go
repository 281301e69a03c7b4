package output

import (
	"fmt"
	"io"
	"time"

	"github.com/mobil-koeln/navi-cli/internal/location"
	"github.com/mobil-koeln/navi-cli/internal/models"
)

// RouteOptions configures route output
type RouteOptions struct {
	Colors *Colors
	// ShowDetails adds addresses, endpoints and provider warnings
	ShowDetails bool
}

func colorsOrPlain(c *Colors) *Colors {
	if c == nil {
		return NewColors(ColorNever)
	}
	return c
}

// RenderRoute prints the first leg's distance and duration
func RenderRoute(w io.Writer, route *models.Route, opts RouteOptions) {
	leg, ok := route.FirstLeg()
	if !ok {
		_, _ = fmt.Fprintln(w, "No route found.")
		return
	}

	c := colorsOrPlain(opts.Colors)

	_, _ = fmt.Fprintf(w, "%s %s\n", c.Header("Distance:"), c.Distance("%s", route.DistanceText()))
	_, _ = fmt.Fprintf(w, "%s     %s\n", c.Header("Time:"), c.Duration("%s", route.DurationText()))

	if !opts.ShowDetails {
		return
	}

	_, _ = fmt.Fprintln(w)
	if route.Summary != "" {
		_, _ = fmt.Fprintf(w, "%s %s\n", c.Muted("Via:"), route.Summary)
	}
	_, _ = fmt.Fprintf(w, "%s %s %s\n", c.Muted("┌"), c.Place("%s", leg.StartAddress), c.Coord("(%s)", leg.Start))
	_, _ = fmt.Fprintf(w, "%s %s %s\n", c.Muted("└"), c.Place("%s", leg.EndAddress), c.Coord("(%s)", leg.End))

	for _, warning := range route.Warnings {
		_, _ = fmt.Fprintf(w, "%s %s\n", c.Warning("!"), warning)
	}
	if route.Copyrights != "" {
		_, _ = fmt.Fprintln(w, c.Muted("%s", route.Copyrights))
	}
}

// RenderRefresh prints one line of `route --watch` output:
// TIME  ORIGIN  DISTANCE  DURATION  DELTA
func RenderRefresh(w io.Writer, at time.Time, origin string, route *models.Route, prev *models.Route, c *Colors) {
	c = colorsOrPlain(c)

	leg, ok := route.FirstLeg()
	if !ok {
		_, _ = fmt.Fprintf(w, "%s  %s\n", c.Muted(at.Format("15:04:05")), c.Error("no route"))
		return
	}

	delta := ""
	if prevLeg, ok := prev.FirstLeg(); ok {
		delta = c.FormatDelta(leg.DurationSeconds - prevLeg.DurationSeconds)
	}

	_, _ = fmt.Fprintf(w, "%s  %-22s  %s  %s %s\n",
		c.Muted(at.Format("15:04:05")),
		origin,
		c.Distance("%-8s", route.DistanceText()),
		c.Duration("%-8s", route.DurationText()),
		delta,
	)
}

// RenderFix prints a position fix
func RenderFix(w io.Writer, fix location.Fix, c *Colors) {
	c = colorsOrPlain(c)

	if fix.Err != nil {
		_, _ = fmt.Fprintf(w, "%s %v\n", c.Error("Position unavailable:"), fix.Err)
		return
	}

	_, _ = fmt.Fprintf(w, "%s %s\n", c.Header("Position:"), c.Coord("%s", fix.Coord))
	if !fix.Time.IsZero() {
		_, _ = fmt.Fprintf(w, "%s     %s\n", c.Muted("Time:"), fix.Time.Format(time.RFC3339))
	}
}
