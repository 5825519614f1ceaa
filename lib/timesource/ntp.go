package timesource

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/samber/oops"
)

// NTPClient abstracts the NTP query so tests can inject a mock.
type NTPClient interface {
	QueryWithOptions(host string, options ntp.QueryOptions) (*ntp.Response, error)
}

// DefaultNTPClient queries real NTP servers.
type DefaultNTPClient struct{}

func (c *DefaultNTPClient) QueryWithOptions(host string, options ntp.QueryOptions) (*ntp.Response, error) {
	return ntp.QueryWithOptions(host, options)
}

// NTPSource samples reference time from a plain NTP server, for watchdog
// deployments where no HTTP reference node exists. The reference reading is
// the local clock shifted by the server's reported offset.
type NTPSource struct {
	server  string
	timeout time.Duration
	client  NTPClient
}

// NewNTPSource creates a source querying the given NTP server, e.g.
// "0.pool.ntp.org". A non-positive timeout falls back to the default query
// timeout.
func NewNTPSource(server string, timeout time.Duration, client NTPClient) *NTPSource {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	if client == nil {
		client = &DefaultNTPClient{}
	}
	return &NTPSource{
		server:  server,
		timeout: timeout,
		client:  client,
	}
}

func (n *NTPSource) Sample(ctx context.Context) (time.Time, error) {
	timeout := n.timeout
	// The ntp library takes a timeout, not a context. Clamp it to the
	// caller's deadline so one slow server cannot outlive the cycle bound.
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return time.Time{}, oops.Errorf("no time left to query NTP server %s", n.server)
	}

	resp, err := n.client.QueryWithOptions(n.server, ntp.QueryOptions{Timeout: timeout})
	if err != nil {
		log.WithError(err).WithField("server", n.server).Debug("NTP query failed")
		return time.Time{}, oops.Errorf("NTP query against %s failed: %w", n.server, err)
	}

	if err := resp.Validate(); err != nil {
		log.WithError(err).WithField("server", n.server).Debug("NTP response failed validation")
		return time.Time{}, oops.Errorf("NTP response from %s failed validation: %w", n.server, err)
	}

	return time.Now().Add(resp.ClockOffset), nil
}
