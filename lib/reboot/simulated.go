package reboot

import (
	"context"
)

// Simulated is the no-op executor for dry-run deployments. It logs the
// restart that would have happened and reports success.
type Simulated struct{}

func (s *Simulated) Reboot(ctx context.Context) error {
	log.WithField("at", "(Simulated).Reboot").Info("Simulated reboot, no command issued")
	return nil
}
