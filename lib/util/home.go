package util

import (
	"os"

	"github.com/driftguard/driftguard/lib/util/logger"
)

var log = logger.GetDriftguardLogger()

// UserHome returns the current user's home directory.
// Falls back to $HOME (or USERPROFILE on Windows) if os.UserHomeDir fails,
// and to the working directory as a last resort so that containerized
// deployments without $HOME can still start.
func UserHome() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv("HOME"); home != "" {
			log.WithError(err).Warn("os.UserHomeDir failed, falling back to $HOME")
			return home
		}
		if home := os.Getenv("USERPROFILE"); home != "" {
			log.WithError(err).Warn("os.UserHomeDir failed, falling back to USERPROFILE")
			return home
		}
		if wd, wdErr := os.Getwd(); wdErr == nil {
			log.WithError(err).Warn("os.UserHomeDir and $HOME unavailable; falling back to working directory")
			return wd
		}
		panic("driftguard: unable to determine home directory; set $HOME environment variable")
	}

	return homeDir
}
