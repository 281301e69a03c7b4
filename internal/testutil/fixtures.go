package testutil

// Sample Directions API bodies for client and UI tests

// SampleDirectionsResponse is a one-leg driving route of 5 km / 10 mins
const SampleDirectionsResponse = `{
	"status": "OK",
	"geocoded_waypoints": [
		{"geocoder_status": "OK", "place_id": "origin-place", "types": ["locality"]},
		{"geocoder_status": "OK", "place_id": "destination-place", "types": ["locality"]}
	],
	"routes": [
		{
			"summary": "Ashok Rajpath",
			"legs": [
				{
					"distance": {"text": "5 km", "value": 5012},
					"duration": {"text": "10 mins", "value": 600},
					"start_address": "Gandhi Maidan, Patna, Bihar, India",
					"end_address": "Patna Junction, Patna, Bihar, India",
					"start_location": {"lat": 25.6197, "lng": 85.1437},
					"end_location": {"lat": 25.6029, "lng": 85.1376}
				}
			],
			"overview_polyline": {"points": "czj{CcstfOv[~Hjk@bLz^~M"},
			"warnings": [],
			"copyrights": "Map data ©2026"
		}
	]
}`

// SampleRefreshedResponse is the route re-computed from a live position
const SampleRefreshedResponse = `{
	"status": "OK",
	"routes": [
		{
			"summary": "Ashok Rajpath",
			"legs": [
				{
					"distance": {"text": "3.2 km", "value": 3200},
					"duration": {"text": "7 mins", "value": 420},
					"start_address": "1,2",
					"end_address": "Patna Junction, Patna, Bihar, India",
					"start_location": {"lat": 1, "lng": 2},
					"end_location": {"lat": 25.6029, "lng": 85.1376}
				}
			],
			"overview_polyline": {"points": ""},
			"warnings": ["Route passes through a toll"],
			"copyrights": "Map data ©2026"
		}
	]
}`

// SampleZeroResultsResponse is returned when no driving route exists
const SampleZeroResultsResponse = `{
	"status": "ZERO_RESULTS",
	"geocoded_waypoints": [],
	"routes": []
}`

// SampleDeniedResponse is returned for a missing or invalid API key
const SampleDeniedResponse = `{
	"status": "REQUEST_DENIED",
	"error_message": "The provided API key is invalid.",
	"routes": []
}`
