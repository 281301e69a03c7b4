package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/mobil-koeln/navi-cli/internal/models"
	"github.com/mobil-koeln/navi-cli/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	data map[string][]byte
}

func (m *mockCache) Get(key string) ([]byte, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockCache) Set(key string, value []byte) error {
	m.data[key] = value
	return nil
}

func TestNewClient(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, BaseURL, client.baseURL)
	assert.Equal(t, "metric", client.units)
	assert.False(t, client.HasAPIKey())
}

func TestNewClient_Options(t *testing.T) {
	hc := &http.Client{Timeout: 5 * time.Second}
	client, err := NewClient(
		WithHTTPClient(hc),
		WithTimeout(30*time.Second),
		WithAPIKey("secret"),
		WithLanguage("en"),
		WithUnits("imperial"),
		WithBaseURL("http://localhost:1234/"),
		WithCache(&mockCache{data: map[string][]byte{}}),
	)
	require.NoError(t, err)

	assert.Same(t, hc, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.True(t, client.HasAPIKey())
	assert.Equal(t, "en", client.language)
	assert.Equal(t, "imperial", client.units)
	assert.Equal(t, "http://localhost:1234", client.baseURL)
	assert.NotNil(t, client.cache)
}

func TestNewClient_WithFileCache(t *testing.T) {
	client, err := NewClient(WithFileCache(t.TempDir(), time.Minute))
	require.NoError(t, err)
	assert.NotNil(t, client.cache)
}

func TestDirections_Success(t *testing.T) {
	ms := testutil.NewDirectionsServer(testutil.SampleDirectionsResponse)
	defer ms.Close()

	client, err := NewClient(WithBaseURL(ms.URL), WithAPIKey("secret"))
	require.NoError(t, err)

	route, err := client.Directions(context.Background(), models.NewRouteQuery(models.TextOrigin("A"), "B"))
	require.NoError(t, err)

	assert.Equal(t, "5 km", route.DistanceText())
	assert.Equal(t, "10 mins", route.DurationText())
	assert.Len(t, route.Geometry, 4)

	req := ms.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, EndpointDirections, req.URL.Path)
	q := req.URL.Query()
	assert.Equal(t, "A", q.Get("origin"))
	assert.Equal(t, "B", q.Get("destination"))
	assert.Equal(t, "driving", q.Get("mode"))
	assert.Equal(t, "secret", q.Get("key"))
	assert.NotEmpty(t, req.Header.Get("X-Correlation-ID"))
}

func TestDirections_CoordinateOrigin(t *testing.T) {
	ms := testutil.NewDirectionsServer(testutil.SampleRefreshedResponse)
	defer ms.Close()

	client, err := NewClient(WithBaseURL(ms.URL))
	require.NoError(t, err)

	q := models.NewRouteQuery(models.CoordOrigin(models.Coordinate{Lat: 1, Lng: 2}), "B")
	route, err := client.Directions(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "3.2 km", route.DistanceText())
	assert.Equal(t, "1,2", ms.LastRequest().URL.Query().Get("origin"))
	// no key configured, none sent
	assert.Empty(t, ms.LastRequest().URL.Query().Get("key"))
}

func TestDirections_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		target error
	}{
		{name: "zero results", body: testutil.SampleZeroResultsResponse, target: ErrNoResults},
		{name: "denied", body: testutil.SampleDeniedResponse, target: ErrDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := testutil.NewDirectionsServer(tt.body)
			defer ms.Close()

			c := &mockCache{data: map[string][]byte{}}
			client, err := NewClient(WithBaseURL(ms.URL), WithCache(c))
			require.NoError(t, err)

			_, err = client.Directions(context.Background(), models.NewRouteQuery(models.TextOrigin("A"), "B"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)

			var se *StatusError
			assert.True(t, errors.As(err, &se))
			// failed statuses are never cached
			assert.Empty(t, c.data)
		})
	}
}

func TestDirections_HTTPError(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer ms.Close()

	client, err := NewClient(WithBaseURL(ms.URL))
	require.NoError(t, err)

	_, err = client.Directions(context.Background(), models.NewRouteQuery(models.TextOrigin("A"), "B"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerError)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, EndpointDirections, apiErr.Endpoint)
}

func TestDirections_InvalidJSON(t *testing.T) {
	ms := testutil.NewDirectionsServer("not json")
	defer ms.Close()

	client, err := NewClient(WithBaseURL(ms.URL))
	require.NoError(t, err)

	_, err = client.Directions(context.Background(), models.NewRouteQuery(models.TextOrigin("A"), "B"))
	assert.Error(t, err)
}

func TestDirections_ContextCanceled(t *testing.T) {
	ms := testutil.NewDirectionsServer(testutil.SampleDirectionsResponse)
	defer ms.Close()

	client, err := NewClient(WithBaseURL(ms.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Directions(ctx, models.NewRouteQuery(models.TextOrigin("A"), "B"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestDirections_RejectsEmptyPlaces(t *testing.T) {
	ms := testutil.NewDirectionsServer(testutil.SampleDirectionsResponse)
	defer ms.Close()

	client, err := NewClient(WithBaseURL(ms.URL))
	require.NoError(t, err)

	_, err = client.Directions(context.Background(), models.NewRouteQuery(models.TextOrigin(""), "B"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = client.Directions(context.Background(), models.NewRouteQuery(models.TextOrigin("A"), " "))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	q := models.RouteQuery{Origin: models.TextOrigin("A"), Destination: "B", TravelMode: "WALKING"}
	_, err = client.Directions(context.Background(), q)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	assert.Zero(t, ms.RequestCount())
}

func TestDirections_CacheKeyOmitsAPIKey(t *testing.T) {
	ms := testutil.NewDirectionsServer(testutil.SampleDirectionsResponse)
	defer ms.Close()

	c := &mockCache{data: map[string][]byte{}}
	client, err := NewClient(WithBaseURL(ms.URL), WithAPIKey("secret"), WithCache(c))
	require.NoError(t, err)

	q := models.NewRouteQuery(models.TextOrigin("A"), "B")
	_, err = client.Directions(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, c.data, 1)
	for key := range c.data {
		assert.NotContains(t, key, "secret")
	}

	// second call is served from cache
	_, err = client.Directions(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, ms.RequestCount())
}

func TestExtractEndpoint(t *testing.T) {
	assert.Equal(t, "/maps/api/directions/json", extractEndpoint("https://maps.googleapis.com/maps/api/directions/json?key=x"))
	assert.Equal(t, "::bad", extractEndpoint("::bad"))
}
