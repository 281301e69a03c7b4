package testutil

import (
	"context"
	"sync"

	"github.com/mobil-koeln/navi-cli/internal/models"
	"github.com/paulmach/orb"
)

// FakeRouter is an in-memory directions provider. Each call records its
// query and returns Route and Err, or the result of Respond when set.
type FakeRouter struct {
	mu      sync.Mutex
	Route   *models.Route
	Err     error
	Respond func(q models.RouteQuery) (*models.Route, error)
	queries []models.RouteQuery
}

// Directions implements navigation.Router
func (f *FakeRouter) Directions(ctx context.Context, q models.RouteQuery) (*models.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.queries = append(f.queries, q)
	respond, route, err := f.Respond, f.Route, f.Err
	f.mu.Unlock()

	if respond != nil {
		return respond(q)
	}
	return route, err
}

// Queries returns the queries received so far
func (f *FakeRouter) Queries() []models.RouteQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RouteQuery(nil), f.queries...)
}

// Calls returns the number of Directions calls
func (f *FakeRouter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// SampleRoute builds a one-leg route between two points with the given
// display texts.
func SampleRoute(distance, duration string, start, end models.Coordinate) *models.Route {
	return &models.Route{
		Summary: "NH 30",
		Legs: []models.Leg{{
			DistanceText: distance,
			DurationText: duration,
			StartAddress: "Gandhi Maidan, Patna",
			EndAddress:   "Patna Junction, Patna",
			Start:        start,
			End:          end,
		}},
		Geometry: orb.LineString{start.Point(), end.Point()},
	}
}
