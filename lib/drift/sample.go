package drift

import (
	"time"
)

// Sample is one reference-clock observation, produced once per watchdog
// cycle. ReferenceTime is only meaningful when Err is nil. Samples are
// ephemeral and never persisted.
type Sample struct {
	LocalTime     time.Time
	ReferenceTime time.Time
	Err           error
}

// Failed reports whether the reference query behind this sample failed.
func (s Sample) Failed() bool {
	return s.Err != nil
}
