package output

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/mobil-koeln/navi-cli/internal/location"
	"github.com/mobil-koeln/navi-cli/internal/models"
	"github.com/stretchr/testify/assert"
)

func sampleRoute(duration string, seconds int) *models.Route {
	return &models.Route{
		Summary: "Ashok Rajpath",
		Legs: []models.Leg{{
			DistanceText:    "5 km",
			DistanceMeters:  5012,
			DurationText:    duration,
			DurationSeconds: seconds,
			StartAddress:    "Gandhi Maidan, Patna",
			EndAddress:      "Patna Junction, Patna",
			Start:           models.Coordinate{Lat: 25.6197, Lng: 85.1437},
			End:             models.Coordinate{Lat: 25.6029, Lng: 85.1376},
		}},
		Warnings:   []string{"This route has tolls."},
		Copyrights: "Map data ©2026",
	}
}

func TestRenderRoute(t *testing.T) {
	var buf bytes.Buffer
	RenderRoute(&buf, sampleRoute("10 mins", 600), RouteOptions{Colors: NewColors(ColorNever)})

	assert.Equal(t, "Distance: 5 km\nTime:     10 mins\n", buf.String())
}

func TestRenderRoute_Details(t *testing.T) {
	var buf bytes.Buffer
	RenderRoute(&buf, sampleRoute("10 mins", 600), RouteOptions{ShowDetails: true})

	out := buf.String()
	assert.Contains(t, out, "Via: Ashok Rajpath")
	assert.Contains(t, out, "┌ Gandhi Maidan, Patna (25.6197,85.1437)")
	assert.Contains(t, out, "└ Patna Junction, Patna (25.6029,85.1376)")
	assert.Contains(t, out, "! This route has tolls.")
	assert.Contains(t, out, "Map data ©2026")
}

func TestRenderRoute_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderRoute(&buf, nil, RouteOptions{})
	assert.Equal(t, "No route found.\n", buf.String())

	buf.Reset()
	RenderRoute(&buf, &models.Route{}, RouteOptions{})
	assert.Equal(t, "No route found.\n", buf.String())
}

func TestRenderRefresh(t *testing.T) {
	at := time.Date(2026, 10, 19, 10, 15, 0, 0, time.UTC)

	var buf bytes.Buffer
	RenderRefresh(&buf, at, "Gandhi Maidan", sampleRoute("10 mins", 600), nil, nil)
	first := buf.String()
	assert.Contains(t, first, "10:15:00")
	assert.Contains(t, first, "Gandhi Maidan")
	assert.Contains(t, first, "5 km")
	assert.NotContains(t, first, "min ")

	buf.Reset()
	RenderRefresh(&buf, at, "25.6,85.14", sampleRoute("13 mins", 780), sampleRoute("10 mins", 600), nil)
	assert.Contains(t, buf.String(), "+3min")

	buf.Reset()
	RenderRefresh(&buf, at, "A", nil, nil, nil)
	assert.Contains(t, buf.String(), "no route")
}

func TestRenderFix(t *testing.T) {
	var buf bytes.Buffer
	RenderFix(&buf, location.Fix{
		Coord: models.Coordinate{Lat: 25.5941, Lng: 85.1376},
		Time:  time.Date(2026, 10, 19, 10, 15, 0, 0, time.UTC),
	}, nil)

	assert.Equal(t, "Position: 25.5941,85.1376\nTime:     2026-10-19T10:15:00Z\n", buf.String())

	buf.Reset()
	RenderFix(&buf, location.Fix{Err: errors.New("no fix")}, nil)
	assert.Equal(t, "Position unavailable: no fix\n", buf.String())
}
