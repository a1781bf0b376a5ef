// Package process runs external commands so that cancellation reaches every
// process they spawn.
package process

import (
	"context"
	"os/exec"
	"time"
)

// WaitDelay bounds how long Wait blocks on I/O after the group is killed.
const WaitDelay = 2 * time.Second

// CommandContext is exec.CommandContext with the command placed in its own
// process group. When ctx is done the whole group is killed, not only the
// direct child.
func CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = WaitDelay
	return cmd
}
