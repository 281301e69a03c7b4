package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/mobil-koeln/navi-cli/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeRouter(t *testing.T) {
	route := SampleRoute("5 km", "10 mins", models.Coordinate{Lat: 1, Lng: 2}, models.Coordinate{Lat: 3, Lng: 4})
	f := &FakeRouter{Route: route}

	q := models.NewRouteQuery(models.TextOrigin("A"), "B")
	got, err := f.Directions(context.Background(), q)
	require.NoError(t, err)
	assert.Same(t, route, got)
	assert.Equal(t, 1, f.Calls())
	assert.Equal(t, []models.RouteQuery{q}, f.Queries())
}

func TestFakeRouter_Respond(t *testing.T) {
	boom := errors.New("boom")
	f := &FakeRouter{Respond: func(models.RouteQuery) (*models.Route, error) { return nil, boom }}

	_, err := f.Directions(context.Background(), models.NewRouteQuery(models.TextOrigin("A"), "B"))
	assert.ErrorIs(t, err, boom)
}

func TestFakeRouter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &FakeRouter{}
	_, err := f.Directions(ctx, models.NewRouteQuery(models.TextOrigin("A"), "B"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.Calls())
}
