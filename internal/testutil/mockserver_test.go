package testutil

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req) //nolint:gosec // URL is from httptest.Server (localhost)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMockServer(t *testing.T) {
	ms := NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	})
	defer ms.Close()

	code, body := get(t, ms.URL+"/directions/json?origin=A")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, `{"status":"OK"}`, body)

	assert.Equal(t, 1, ms.RequestCount())
	last := ms.LastRequest()
	require.NotNil(t, last)
	assert.Equal(t, "A", last.URL.Query().Get("origin"))
}

func TestMockServer_Reset(t *testing.T) {
	ms := NewDirectionsServer(SampleDirectionsResponse)
	defer ms.Close()

	for i := 0; i < 3; i++ {
		code, _ := get(t, ms.URL)
		assert.Equal(t, http.StatusOK, code)
	}
	assert.Equal(t, 3, ms.RequestCount())

	ms.Reset()
	assert.Equal(t, 0, ms.RequestCount())
	assert.Nil(t, ms.LastRequest())
}
