package alarm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestAlarmRaisesOnFirstBadSample(t *testing.T) {
	var a Alarm
	assert.False(t, a.Active())
	assert.True(t, a.RaisedAt().IsZero())

	a = a.Observe(true, t0)
	assert.True(t, a.Active())
	assert.Equal(t, t0, a.RaisedAt())
}

func TestRepeatedBadSamplesDoNotMoveRaisedAt(t *testing.T) {
	var a Alarm
	a = a.Observe(true, t0)

	for i := 1; i <= 10; i++ {
		a = a.Observe(true, t0.Add(time.Duration(i)*time.Second))
		assert.Equal(t, t0, a.RaisedAt(), "raisedAt must be pinned to the first bad sample")
	}
}

func TestSingleGoodSampleClearsImmediately(t *testing.T) {
	var a Alarm
	for i := 0; i < 100; i++ {
		a = a.Observe(true, t0.Add(time.Duration(i)*time.Second))
	}
	assert.True(t, a.Active())

	// No hysteresis on recovery: one good sample disarms, however long
	// the alarm was active.
	a = a.Observe(false, t0.Add(200*time.Second))
	assert.False(t, a.Active())
	assert.True(t, a.RaisedAt().IsZero())
}

func TestGoodSamplesOnClearAlarmAreNoOps(t *testing.T) {
	var a Alarm
	a = a.Observe(false, t0)
	assert.False(t, a.Active())
	a = a.Observe(false, t0.Add(time.Second))
	assert.False(t, a.Active())
}

func TestMaturityBoundary(t *testing.T) {
	timeout := 30 * time.Second

	var a Alarm
	a = a.Observe(true, t0)

	assert.False(t, a.Matured(t0, timeout))
	assert.False(t, a.Matured(t0.Add(timeout-time.Millisecond), timeout))
	assert.True(t, a.Matured(t0.Add(timeout), timeout), "matured exactly at raisedAt+timeout")
	assert.True(t, a.Matured(t0.Add(timeout+time.Hour), timeout))
}

func TestMaturityMeasuredFromFirstBadSample(t *testing.T) {
	timeout := 30 * time.Second

	var a Alarm
	a = a.Observe(true, t0)
	// Later bad samples must not push maturity out.
	a = a.Observe(true, t0.Add(29*time.Second))
	assert.True(t, a.Matured(t0.Add(timeout), timeout))
}

func TestClearAlarmNeverMatures(t *testing.T) {
	var a Alarm
	assert.False(t, a.Matured(t0.Add(time.Hour), 0))
}

func TestRearmedAlarmStartsFreshTimer(t *testing.T) {
	timeout := 30 * time.Second

	var a Alarm
	a = a.Observe(true, t0)
	a = a.Observe(false, t0.Add(10*time.Second))
	a = a.Observe(true, t0.Add(20*time.Second))

	// The old window does not count; maturity runs from the re-arm.
	assert.False(t, a.Matured(t0.Add(40*time.Second), timeout))
	assert.True(t, a.Matured(t0.Add(50*time.Second), timeout))
}
