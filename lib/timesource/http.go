package timesource

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/samber/oops"
)

// TimePayload is the wire document served by the reference endpoint on
// GET /time. Time is RFC3339Nano; UnixMilli duplicates it for clients that
// prefer integer arithmetic.
type TimePayload struct {
	Time      string `json:"time"`
	UnixMilli int64  `json:"unix_ms"`
}

// HTTPSource queries a reference node's /time endpoint. Every failure mode
// (transport error, timeout, non-2xx status, malformed body) surfaces as an
// error sample so the evaluator can fold it into the alarm path; nothing is
// ever silently defaulted to in-sync.
type HTTPSource struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSource creates a source for the given reference base URL, e.g.
// "http://timehost:7671". A non-positive timeout falls back to the default
// query timeout.
func NewHTTPSource(endpoint string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &HTTPSource{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (h *HTTPSource) Sample(ctx context.Context) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint+"/time", nil)
	if err != nil {
		return time.Time{}, oops.Errorf("failed to build reference time request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.WithError(err).WithField("endpoint", h.endpoint).Debug("Reference time query failed")
		return time.Time{}, oops.Errorf("reference time query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return time.Time{}, oops.Errorf("reference endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return time.Time{}, oops.Errorf("failed to read reference time response: %w", err)
	}

	var payload TimePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return time.Time{}, oops.Errorf("malformed reference time response: %w", err)
	}

	ref, err := time.Parse(time.RFC3339Nano, payload.Time)
	if err != nil {
		// Degrade to the integer field before giving up on the sample.
		if payload.UnixMilli != 0 {
			return time.UnixMilli(payload.UnixMilli), nil
		}
		return time.Time{}, oops.Errorf("unparseable reference timestamp %q: %w", payload.Time, err)
	}

	return ref, nil
}
