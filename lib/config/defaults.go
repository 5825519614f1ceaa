package config

import (
	"path/filepath"
	"time"

	"github.com/driftguard/driftguard/lib/util"
)

// Documented defaults. Invalid or missing configuration values fall back to
// these rather than aborting startup.
const (
	DefaultCheckInterval     = 10 * time.Second
	DefaultAllowedDifference = 5 * time.Second
	DefaultTimeoutDuration   = 60 * time.Second
	DefaultMinRebootInterval = time.Hour
	DefaultSampleTimeout     = 10 * time.Second
	DefaultReferenceURL      = "http://localhost:7671"
	DefaultReferenceAddress  = ":7671"
	DefaultNTPServer         = "0.pool.ntp.org"
	DefaultMode              = "simulated"
)

// DefaultRecordPath returns the default location of the persisted guard
// record.
func DefaultRecordPath() string {
	return filepath.Join(util.UserHome(), DRIFTGUARD_BASE_DIR, "reboot-record.yaml")
}
