package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPermitNoPriorReboot(t *testing.T) {
	assert.True(t, Permit(now, time.Time{}, time.Hour))
}

func TestPermitCooldownBoundary(t *testing.T) {
	min := time.Hour

	assert.False(t, Permit(now, now.Add(-30*time.Minute), min))
	assert.False(t, Permit(now, now.Add(-time.Hour+time.Millisecond), min))
	assert.True(t, Permit(now, now.Add(-time.Hour), min), "re-permits exactly at the boundary")
	assert.True(t, Permit(now, now.Add(-2*time.Hour), min))
}

func TestPermitZeroInterval(t *testing.T) {
	// No cooldown configured: every proposal is allowed.
	assert.True(t, Permit(now, now, 0))
	assert.True(t, Permit(now, now.Add(-time.Nanosecond), 0))
}
