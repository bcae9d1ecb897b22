package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/periplo/periplo/internal/chat"
	"github.com/periplo/periplo/internal/log"
)

func newTestServer(t *testing.T, svc ChatService, opts Options) *httptest.Server {
	t.Helper()
	s := NewServer(svc, opts, log.NewNop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServerRoutes(t *testing.T) {
	t.Parallel()

	svc := &stubService{result: &chat.Result{Text: "hello", Sources: []chat.Source{}}}
	ts := newTestServer(t, svc, Options{})

	t.Run("health endpoint", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("chat endpoint through full middleware chain", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/chat", "application/json",
			strings.NewReader(`{"category":"food","query":"hi"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
	})

	t.Run("unknown route is 404", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/nope")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServerRateLimitWiring(t *testing.T) {
	t.Parallel()

	svc := &stubService{result: &chat.Result{Text: "hello", Sources: []chat.Source{}}}
	ts := newTestServer(t, svc, Options{RateLimit: 0.001, RateBurst: 1})

	client := ts.Client()
	var last int
	for range 2 {
		resp, err := client.Post(ts.URL+"/chat", "application/json",
			strings.NewReader(`{"category":"food","query":"hi"}`))
		require.NoError(t, err)
		resp.Body.Close()
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestServerRunShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := &stubService{result: &chat.Result{Text: "hello", Sources: []chat.Source{}}}
	s := NewServer(svc, Options{}, log.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, "127.0.0.1:0")
	}()

	// Give the listener a moment to come up, then trigger shutdown.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
