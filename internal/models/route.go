package models

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"
)

// TravelMode is the routing mode sent to the provider
type TravelMode string

// TravelModeDriving is the only mode this program requests
const TravelModeDriving TravelMode = "DRIVING"

// RouteQuery is a single request to the routing provider. It is never
// modified once issued.
type RouteQuery struct {
	Origin      Origin     `json:"origin"`
	Destination string     `json:"destination"`
	TravelMode  TravelMode `json:"travelMode"`
}

// NewRouteQuery creates a driving query
func NewRouteQuery(origin Origin, destination string) RouteQuery {
	return RouteQuery{
		Origin:      origin,
		Destination: destination,
		TravelMode:  TravelModeDriving,
	}
}

// Route is the routing provider's answer for one query
type Route struct {
	Summary    string         `json:"summary"`
	Legs       []Leg          `json:"legs"`
	Geometry   orb.LineString `json:"geometry,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
	Copyrights string         `json:"copyrights,omitempty"`
}

// Leg is a single origin-to-destination segment of a route
type Leg struct {
	DistanceText    string     `json:"distanceText"`
	DistanceMeters  int        `json:"distanceMeters"`
	DurationText    string     `json:"durationText"`
	DurationSeconds int        `json:"durationSeconds"`
	StartAddress    string     `json:"startAddress"`
	EndAddress      string     `json:"endAddress"`
	Start           Coordinate `json:"start"`
	End             Coordinate `json:"end"`
}

// FirstLeg returns leg 0, the only leg read for display
func (r *Route) FirstLeg() (Leg, bool) {
	if r == nil || len(r.Legs) == 0 {
		return Leg{}, false
	}
	return r.Legs[0], true
}

// DistanceText returns the human-readable distance of leg 0
func (r *Route) DistanceText() string {
	leg, _ := r.FirstLeg()
	return leg.DistanceText
}

// DurationText returns the human-readable duration of leg 0
func (r *Route) DurationText() string {
	leg, _ := r.FirstLeg()
	return leg.DurationText
}

// Bound returns the bounding box of the route geometry, falling back to the
// leg endpoints when no geometry was returned.
func (r *Route) Bound() (orb.Bound, bool) {
	if r == nil {
		return orb.Bound{}, false
	}
	if len(r.Geometry) > 0 {
		return r.Geometry.Bound(), true
	}
	if len(r.Legs) == 0 {
		return orb.Bound{}, false
	}
	mp := orb.MultiPoint{}
	for _, leg := range r.Legs {
		mp = append(mp, leg.Start.Point(), leg.End.Point())
	}
	return mp.Bound(), true
}

// Path returns the points to draw on the map
func (r *Route) Path() orb.LineString {
	if r == nil {
		return nil
	}
	if len(r.Geometry) > 0 {
		return r.Geometry
	}
	var ls orb.LineString
	for _, leg := range r.Legs {
		if len(ls) == 0 {
			ls = append(ls, leg.Start.Point())
		}
		ls = append(ls, leg.End.Point())
	}
	return ls
}

// DirectionsResponse is the raw JSON body of a Directions API call
type DirectionsResponse struct {
	Status            string          `json:"status"`
	ErrorMessage      string          `json:"error_message,omitempty"`
	GeocodedWaypoints []GeocodedPoint `json:"geocoded_waypoints"`
	Routes            []RouteResponse `json:"routes"`
}

// GeocodedPoint reports how the provider resolved one of the query places
type GeocodedPoint struct {
	GeocoderStatus string   `json:"geocoder_status"`
	PlaceID        string   `json:"place_id"`
	Types          []string `json:"types"`
}

// RouteResponse is one entry of DirectionsResponse.Routes
type RouteResponse struct {
	Summary          string        `json:"summary"`
	Legs             []LegResponse `json:"legs"`
	OverviewPolyline struct {
		Points string `json:"points"`
	} `json:"overview_polyline"`
	Warnings   []string `json:"warnings"`
	Copyrights string   `json:"copyrights"`
}

// LegResponse is a leg as returned by the provider
type LegResponse struct {
	Distance      TextValue `json:"distance"`
	Duration      TextValue `json:"duration"`
	StartAddress  string    `json:"start_address"`
	EndAddress    string    `json:"end_address"`
	StartLocation LatLng    `json:"start_location"`
	EndLocation   LatLng    `json:"end_location"`
}

// TextValue pairs a display string with its numeric value (meters or seconds)
type TextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// LatLng is the provider's coordinate object
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToCoordinate converts the provider coordinate
func (l LatLng) ToCoordinate() Coordinate {
	return Coordinate{Lat: l.Lat, Lng: l.Lng}
}

// ToRoute converts the raw response to a Route and decodes the overview polyline
func (r *RouteResponse) ToRoute() (*Route, error) {
	route := &Route{
		Summary:    r.Summary,
		Legs:       make([]Leg, 0, len(r.Legs)),
		Warnings:   r.Warnings,
		Copyrights: r.Copyrights,
	}

	for _, l := range r.Legs {
		route.Legs = append(route.Legs, Leg{
			DistanceText:    l.Distance.Text,
			DistanceMeters:  l.Distance.Value,
			DurationText:    l.Duration.Text,
			DurationSeconds: l.Duration.Value,
			StartAddress:    l.StartAddress,
			EndAddress:      l.EndAddress,
			Start:           l.StartLocation.ToCoordinate(),
			End:             l.EndLocation.ToCoordinate(),
		})
	}

	if r.OverviewPolyline.Points != "" {
		coords, _, err := polyline.DecodeCoords([]byte(r.OverviewPolyline.Points))
		if err != nil {
			return nil, fmt.Errorf("failed to decode route polyline: %w", err)
		}
		route.Geometry = make(orb.LineString, 0, len(coords))
		for _, c := range coords {
			// polyline yields [lat, lng]
			route.Geometry = append(route.Geometry, orb.Point{c[1], c[0]})
		}
	}

	return route, nil
}
