package timesource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceSample(t *testing.T) {
	ref := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"time":"` + ref.Format(time.RFC3339Nano) + `","unix_ms":` + "1772366400123" + `}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, time.Second)
	got, err := source.Sample(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Equal(ref))
}

func TestHTTPSourceNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).Sample(context.Background())
	assert.Error(t, err, "non-2xx must surface as an error sample, never as in-sync")
}

func TestHTTPSourceMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).Sample(context.Background())
	assert.Error(t, err)
}

func TestHTTPSourceUnixMilliFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"time":"garbage","unix_ms":1772366400123}`))
	}))
	defer srv.Close()

	got, err := NewHTTPSource(srv.URL, time.Second).Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1772366400123), got.UnixMilli())
}

func TestHTTPSourceUnreachable(t *testing.T) {
	// Port from TEST-NET style reserved range; nothing listens there.
	_, err := NewHTTPSource("http://127.0.0.1:1", 200*time.Millisecond).Sample(context.Background())
	assert.Error(t, err)
}

func TestHTTPSourceHonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewHTTPSource(srv.URL, 10*time.Second).Sample(ctx)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "a hung reference must not stall past the bound")
}
