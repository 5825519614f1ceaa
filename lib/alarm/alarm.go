package alarm

import (
	"time"

	"github.com/driftguard/driftguard/lib/util/logger"
)

var log = logger.GetDriftguardLogger()

// Alarm tracks whether an unresolved out-of-sync condition is being timed
// toward reboot eligibility. It is a value object: Observe returns the next
// state instead of mutating shared memory, so the machine can be driven by
// a test without a running clock. raisedAt is set if and only if the alarm
// is active, and once set it does not move until the alarm clears.
type Alarm struct {
	active   bool
	raisedAt time.Time
}

// Active reports whether the alarm is currently raised.
func (a Alarm) Active() bool {
	return a.active
}

// RaisedAt returns the time of the first out-of-sync observation of the
// current alarm window. Zero when the alarm is clear.
func (a Alarm) RaisedAt() time.Time {
	return a.raisedAt
}

// Observe feeds one classified sample into the machine and returns the
// resulting state.
//
// A clear alarm arms on the first bad sample, starting the maturity timer.
// Repeated bad samples leave raisedAt untouched: maturity is measured from
// the first bad sample, not the latest. Any single good sample disarms
// immediately regardless of how long the alarm was active; there is no
// hysteresis on recovery.
func (a Alarm) Observe(outOfSync bool, now time.Time) Alarm {
	switch {
	case outOfSync && !a.active:
		log.WithField("raised_at", now).Debug("alarm raised")
		return Alarm{active: true, raisedAt: now}
	case !outOfSync && a.active:
		log.WithField("was_raised_at", a.raisedAt).Debug("alarm cleared")
		return Alarm{}
	default:
		return a
	}
}

// Matured reports whether the alarm has been continuously active for at
// least timeout, making it reboot-eligible. Maturity is a derived predicate,
// not a state transition, and is re-checked on every cycle while armed.
func (a Alarm) Matured(now time.Time, timeout time.Duration) bool {
	if !a.active {
		return false
	}
	return !now.Before(a.raisedAt.Add(timeout))
}
