//go:build windows
// +build windows

package reboot

import (
	"context"
	"os/exec"

	"github.com/samber/oops"
)

func restartSystem(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "shutdown", "/r", "/t", "0")
	if out, err := cmd.CombinedOutput(); err != nil {
		return oops.Errorf("shutdown command failed: %w (output: %s)", err, string(out))
	}
	return nil
}
