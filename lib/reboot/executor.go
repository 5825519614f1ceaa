package reboot

import (
	"context"
	"time"

	"github.com/driftguard/driftguard/lib/util/logger"
)

var log = logger.GetDriftguardLogger()

// Mode names for executor selection.
const (
	ModeSimulated = "simulated"
	ModeSystem    = "system"
)

// defaultCommandTimeout bounds the restart command. A reboot command that
// hangs past this is reported as a failure instead of stalling the
// supervisor forever.
const defaultCommandTimeout = 30 * time.Second

// Executor performs (or pretends to perform) a system restart. The variant
// is selected once at startup from the operating mode; callers never branch
// on platform or mode at invocation time.
type Executor interface {
	Reboot(ctx context.Context) error
}

// NewExecutor selects the executor for the given operating mode. Unknown
// modes fall back to simulated, which is the safe default for a watchdog
// that may be misconfigured.
func NewExecutor(mode string) Executor {
	switch mode {
	case ModeSystem:
		return &System{timeout: defaultCommandTimeout}
	case ModeSimulated:
		return &Simulated{}
	default:
		log.WithField("mode", mode).Warn("Unknown reboot mode, falling back to simulated")
		return &Simulated{}
	}
}

// System executes the real platform restart command.
type System struct {
	timeout time.Duration
}

// Reboot runs the platform restart command with a bounded wait. A hang is
// treated as failure via the command context deadline.
func (s *System) Reboot(ctx context.Context) error {
	timeout := s.timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.WithFields(logger.Fields{
		"at":      "(System).Reboot",
		"timeout": timeout,
	}).Info("Issuing system restart command")

	return restartSystem(ctx)
}
