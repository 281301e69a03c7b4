package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Coordinate is a device-reported or provider-reported position in decimal degrees.
// No normalization is performed on values coming from a location source.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Point converts the coordinate to an orb point (lng, lat order)
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// CoordinateFromPoint converts an orb point back to a Coordinate
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Lat: p.Lat(), Lng: p.Lon()}
}

// String formats the coordinate the way routing providers expect it ("lat,lng")
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// DistanceTo returns the great-circle distance in meters
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return geo.Distance(c.Point(), other.Point())
}

// coordRegex accepts "lat,lng", "lat:lng" and "lat lng" with optional whitespace
var coordRegex = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*[,: ]\s*(-?\d+(?:\.\d+)?)\s*$`)

// ParseCoordinate parses user input such as "25.5941,85.1376" or "50.107:8.663"
func ParseCoordinate(s string) (Coordinate, error) {
	matches := coordRegex.FindStringSubmatch(s)
	if len(matches) != 3 {
		return Coordinate{}, fmt.Errorf("coordinates must be in format LAT,LNG (got %q)", s)
	}

	lat, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(matches[2], 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid longitude: %w", err)
	}
	if lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinate{}, fmt.Errorf("longitude %v out of range [-180, 180]", lng)
	}

	return Coordinate{Lat: lat, Lng: lng}, nil
}

// Origin is the start of a route query: free text typed by the user
// or the device's current position.
type Origin struct {
	Text  string      `json:"text,omitempty"`
	Coord *Coordinate `json:"coord,omitempty"`
}

// TextOrigin builds an origin from user input
func TextOrigin(text string) Origin {
	return Origin{Text: text}
}

// CoordOrigin builds an origin from a position fix
func CoordOrigin(c Coordinate) Origin {
	return Origin{Coord: &c}
}

// IsZero reports whether the origin carries neither text nor a coordinate
func (o Origin) IsZero() bool {
	return o.Coord == nil && strings.TrimSpace(o.Text) == ""
}

// String returns the provider representation of the origin
func (o Origin) String() string {
	if o.Coord != nil {
		return o.Coord.String()
	}
	return strings.TrimSpace(o.Text)
}
