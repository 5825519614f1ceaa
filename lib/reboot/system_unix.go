//go:build !windows
// +build !windows

package reboot

import (
	"context"
	"os/exec"

	"github.com/samber/oops"
	"golang.org/x/sys/unix"
)

// restartSystem flushes filesystem buffers and invokes the platform restart
// command. Sync first: the guard record was just committed and must reach
// disk before the machine goes down.
func restartSystem(ctx context.Context) error {
	unix.Sync()

	cmd := exec.CommandContext(ctx, "shutdown", "-r", "now")
	if out, err := cmd.CombinedOutput(); err != nil {
		return oops.Errorf("shutdown command failed: %w (output: %s)", err, string(out))
	}
	return nil
}
