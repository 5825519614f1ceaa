package guard

import (
	"time"

	"github.com/driftguard/driftguard/lib/util/logger"
)

var log = logger.GetDriftguardLogger()

// Permit decides whether a proposed reboot at now is allowed given the last
// recorded reboot and the minimum interval between reboots. A zero
// lastRebootAt means no prior reboot is on record, which always permits.
// The boundary is non-strict: exactly minRebootInterval after the last
// reboot is allowed again.
//
// Permit is a pure predicate; committing the record is the caller's job and
// must happen before the reboot command is issued (write-then-act), so a
// crash-and-restart loop around the reboot call cannot bypass the cooldown.
func Permit(now, lastRebootAt time.Time, minRebootInterval time.Duration) bool {
	if lastRebootAt.IsZero() {
		return true
	}
	return now.Sub(lastRebootAt) >= minRebootInterval
}
