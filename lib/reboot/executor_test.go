package reboot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewExecutorSelection(t *testing.T) {
	assert.IsType(t, &Simulated{}, NewExecutor(ModeSimulated))
	assert.IsType(t, &System{}, NewExecutor(ModeSystem))
}

func TestNewExecutorUnknownModeFallsBackToSimulated(t *testing.T) {
	// A typo in the mode flag must not arm a real reboot.
	assert.IsType(t, &Simulated{}, NewExecutor("produktion"))
	assert.IsType(t, &Simulated{}, NewExecutor(""))
}

func TestSimulatedRebootSucceeds(t *testing.T) {
	err := (&Simulated{}).Reboot(context.Background())
	assert.NoError(t, err)
}
