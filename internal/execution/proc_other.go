//go:build !unix

package execution

import "os/exec"

// killProcessGroup keeps the default cancellation, which kills the tool only
func killProcessGroup(cmd *exec.Cmd) {}
