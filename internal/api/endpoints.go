package api

const (
	// BaseURL is the base URL for the Google Maps web services
	BaseURL = "https://maps.googleapis.com/maps/api"

	// EndpointDirections returns driving directions between two places
	// Required params: origin, destination, mode, key
	EndpointDirections = "/directions/json"
)

// Directions API response status values
const (
	StatusOK                   = "OK"
	StatusNotFound             = "NOT_FOUND"
	StatusZeroResults          = "ZERO_RESULTS"
	StatusMaxWaypointsExceeded = "MAX_WAYPOINTS_EXCEEDED"
	StatusMaxRouteLength       = "MAX_ROUTE_LENGTH_EXCEEDED"
	StatusInvalidRequest       = "INVALID_REQUEST"
	StatusOverDailyLimit       = "OVER_DAILY_LIMIT"
	StatusOverQueryLimit       = "OVER_QUERY_LIMIT"
	StatusRequestDenied        = "REQUEST_DENIED"
	StatusUnknownError         = "UNKNOWN_ERROR"
)

// travelModes maps the public travel mode to the query parameter value
var travelModes = map[string]string{
	"DRIVING": "driving",
}
