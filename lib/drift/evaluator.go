package drift

import (
	"time"
)

// Verdict is the classification of a single sample. Drift is the absolute
// local/reference difference at millisecond resolution; it is zero when the
// sample carried an error, since no reference reading exists to diff against.
type Verdict struct {
	InSync bool
	Drift  time.Duration
	Err    error
}

// Evaluate classifies a sample against the allowed difference. A failed
// reference query is unconditionally out-of-sync: connectivity loss is as
// dangerous as clock drift and must never default to "in sync". Otherwise
// the absolute difference is compared non-strictly, so a drift exactly equal
// to the allowed difference still counts as in-sync.
//
// Evaluate is a pure function of its inputs and has no side effects.
func Evaluate(s Sample, allowed time.Duration) Verdict {
	if s.Err != nil {
		return Verdict{InSync: false, Err: s.Err}
	}

	diff := s.LocalTime.Sub(s.ReferenceTime)
	if diff < 0 {
		diff = -diff
	}
	diff = diff.Truncate(time.Millisecond)

	return Verdict{
		InSync: diff <= allowed,
		Drift:  diff,
	}
}
