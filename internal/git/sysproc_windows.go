//go:build windows

package git

import (
	"os/exec"
	"syscall"
)

// detach suppresses the console window for the child process.
// Preserves any existing SysProcAttr fields that were set before this call.
func detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
}
