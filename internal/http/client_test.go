package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient()

	assert.Equal(t, DefaultEndpoint, client.Endpoint())
	assert.Zero(t, client.HTTPClient().Timeout)
	assert.True(t, client.freshPostClient)
	assert.NotNil(t, client.HTTPClient().Transport)
}

func TestClient_WithOptions(t *testing.T) {
	client := NewClient(
		WithEndpoint("https://example.com/api/values"),
		WithTimeout(10*time.Second),
		WithHeader("X-Test", "test-value"),
		WithFreshPostClient(false),
	)

	assert.Equal(t, "https://example.com/api/values", client.Endpoint())
	assert.Equal(t, 10*time.Second, client.HTTPClient().Timeout)
	assert.Equal(t, "test-value", client.headers["X-Test"])

	post, release := client.PostClient()
	defer release()
	assert.Same(t, client.HTTPClient(), post)
}

func TestClient_PostClientIsFresh(t *testing.T) {
	var built atomic.Int32
	client := NewClient(WithTransport(func() http.RoundTripper {
		built.Add(1)
		return http.DefaultTransport.(*http.Transport).Clone()
	}))
	require.Equal(t, int32(1), built.Load())

	first, releaseFirst := client.PostClient()
	second, releaseSecond := client.PostClient()
	defer releaseFirst()
	defer releaseSecond()

	assert.NotSame(t, first, second)
	assert.NotSame(t, client.HTTPClient(), first)
	assert.Equal(t, int32(3), built.Load())
}

func TestClient_NewRequest(t *testing.T) {
	client := NewClient(
		WithEndpoint("http://localhost:5000/api/values"),
		WithHeader("Accept", "application/json"),
	)

	req, err := client.NewRequest(context.Background(), http.MethodGet, nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "http://localhost:5000/api/values", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
}

func TestClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-value", r.Header.Get("X-Test-Header"))
		assert.Equal(t, "apibench-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"first":"Marsha"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"success"}`))
	}))
	defer server.Close()

	client := NewClient(
		WithEndpoint(server.URL),
		WithHeader("User-Agent", "apibench-test"),
	)

	req := NewRequest(http.MethodPost, "").
		WithHeader("X-Test-Header", "test-value").
		WithBody(map[string]string{"first": "Marsha"})

	resp, err := client.Do(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, "application/json", resp.Headers.Get("Content-Type"))
	assert.Equal(t, `{"message":"success"}`, resp.Text())

	assert.False(t, resp.Timing.StartTime.IsZero())
	assert.Greater(t, resp.Timing.TotalTime, time.Duration(0))
	assert.Equal(t, resp.Timing.TotalTime, resp.Elapsed())
}

func TestClient_DoReusesConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(WithEndpoint(server.URL))

	first, err := client.Do(context.Background(), NewRequest(http.MethodGet, ""))
	require.NoError(t, err)
	assert.False(t, first.Timing.ConnReused)

	second, err := client.Do(context.Background(), NewRequest(http.MethodGet, ""))
	require.NoError(t, err)
	assert.True(t, second.Timing.ConnReused)
}

func TestClient_DoTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(WithEndpoint(url)).Do(context.Background(), NewRequest(http.MethodGet, ""))
	assert.Error(t, err)
}
