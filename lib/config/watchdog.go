package config

import (
	"time"

	"github.com/spf13/viper"
)

// WatchdogConfig is the read-only configuration consumed by the supervisor
// for the lifetime of the process.
type WatchdogConfig struct {
	// CheckInterval is the period between supervisor cycles.
	CheckInterval time.Duration
	// AllowedDifference is the largest local/reference drift still
	// considered in-sync.
	AllowedDifference time.Duration
	// TimeoutDuration is how long the alarm must stay armed before it
	// matures into a reboot trigger.
	TimeoutDuration time.Duration
	// MinRebootInterval is the cooldown enforced between reboots.
	MinRebootInterval time.Duration
	// SampleTimeout bounds a single reference query.
	SampleTimeout time.Duration
	// ReferenceURL is the base URL of the reference node.
	ReferenceURL string
	// Mode selects simulated or system reboot execution.
	Mode string
	// RecordPath is where the guard record is persisted.
	RecordPath string
}

// ReferenceConfig configures the reference-time server role.
type ReferenceConfig struct {
	Enabled bool
	Address string
}

// NTPConfig configures the NTP reference source used in place of the HTTP
// endpoint when enabled.
type NTPConfig struct {
	Enabled bool
	Server  string
}

// NewWatchdogConfigFromViper constructs a WatchdogConfig from current viper
// settings, replacing invalid values with the documented defaults.
func NewWatchdogConfigFromViper() *WatchdogConfig {
	cfg := &WatchdogConfig{
		CheckInterval:     viper.GetDuration("watchdog.check_interval"),
		AllowedDifference: viper.GetDuration("watchdog.allowed_difference"),
		TimeoutDuration:   viper.GetDuration("watchdog.timeout_duration"),
		MinRebootInterval: viper.GetDuration("watchdog.min_reboot_interval"),
		SampleTimeout:     viper.GetDuration("watchdog.sample_timeout"),
		ReferenceURL:      viper.GetString("watchdog.reference_url"),
		Mode:              viper.GetString("watchdog.mode"),
		RecordPath:        viper.GetString("watchdog.record_path"),
	}
	cfg.sanitize()
	return cfg
}

// NewReferenceConfigFromViper constructs a ReferenceConfig from current
// viper settings.
func NewReferenceConfigFromViper() *ReferenceConfig {
	cfg := &ReferenceConfig{
		Enabled: viper.GetBool("reference.enabled"),
		Address: viper.GetString("reference.address"),
	}
	if cfg.Address == "" {
		cfg.Address = DefaultReferenceAddress
	}
	return cfg
}

// NewNTPConfigFromViper constructs an NTPConfig from current viper settings.
func NewNTPConfigFromViper() *NTPConfig {
	cfg := &NTPConfig{
		Enabled: viper.GetBool("ntp.enabled"),
		Server:  viper.GetString("ntp.server"),
	}
	if cfg.Server == "" {
		cfg.Server = DefaultNTPServer
	}
	return cfg
}

// sanitize replaces invalid values with defaults. AllowedDifference of zero
// is legal (any measurable drift alarms); negative values are not.
func (c *WatchdogConfig) sanitize() {
	if c.CheckInterval <= 0 {
		log.WithField("check_interval", c.CheckInterval).Warn("Invalid check interval, using default")
		c.CheckInterval = DefaultCheckInterval
	}
	if c.AllowedDifference < 0 {
		log.WithField("allowed_difference", c.AllowedDifference).Warn("Invalid allowed difference, using default")
		c.AllowedDifference = DefaultAllowedDifference
	}
	if c.TimeoutDuration < 0 {
		log.WithField("timeout_duration", c.TimeoutDuration).Warn("Invalid timeout duration, using default")
		c.TimeoutDuration = DefaultTimeoutDuration
	}
	if c.MinRebootInterval < 0 {
		log.WithField("min_reboot_interval", c.MinRebootInterval).Warn("Invalid min reboot interval, using default")
		c.MinRebootInterval = DefaultMinRebootInterval
	}
	if c.SampleTimeout <= 0 {
		c.SampleTimeout = DefaultSampleTimeout
	}
	if c.ReferenceURL == "" {
		c.ReferenceURL = DefaultReferenceURL
	}
	if c.Mode == "" {
		c.Mode = DefaultMode
	}
	if c.RecordPath == "" {
		c.RecordPath = DefaultRecordPath()
	}
}
