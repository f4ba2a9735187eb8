//go:build unix

package execution

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the tool in its own process group and makes
// context cancellation kill the whole group. Wrapper scripts launch the
// compiler as a child that would otherwise outlive the timeout.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
