package refserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftguard/driftguard/lib/config"
	"github.com/driftguard/driftguard/lib/timesource"
)

func newTestServer(t *testing.T, now func() time.Time) *Server {
	t.Helper()
	srv, err := NewServer(&config.ReferenceConfig{Enabled: true, Address: "127.0.0.1:0"}, now)
	require.NoError(t, err)
	return srv
}

func TestNewServerNilConfig(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)
}

func TestHandleTimeServesFixedClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 500000000, time.UTC)
	srv := newTestServer(t, func() time.Time { return fixed })

	rec := httptest.NewRecorder()
	srv.handleTime(rec, httptest.NewRequest(http.MethodGet, "/time", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload timesource.TimePayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	parsed, err := time.Parse(time.RFC3339Nano, payload.Time)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(fixed))
	assert.Equal(t, fixed.UnixMilli(), payload.UnixMilli)
}

func TestHandleTimeRejectsNonGet(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.handleTime(rec, httptest.NewRequest(http.MethodPost, "/time", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleTimeRateLimited(t *testing.T) {
	srv := newTestServer(t, nil)

	// Burn through the burst; the limiter must start refusing.
	limited := false
	for i := 0; i < 200; i++ {
		rec := httptest.NewRecorder()
		srv.handleTime(rec, httptest.NewRequest(http.MethodGet, "/time", nil))
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited, "hot-looping client should hit the rate limit")
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDisabledServerStartIsNoOp(t *testing.T) {
	srv, err := NewServer(&config.ReferenceConfig{Enabled: false}, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	srv.Stop()
}

func TestServedTimeRoundTripsThroughHTTPSource(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	srv := newTestServer(t, func() time.Time { return fixed })

	// Serve the real handler over httptest and read it back with the
	// watchdog's own client.
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	source := timesource.NewHTTPSource(ts.URL, time.Second)
	got, err := source.Sample(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Equal(fixed))
}
