//go:build unix

package git

import (
	"os/exec"
	"syscall"
)

// detach starts the child in its own session so it has no controlling terminal,
// and makes a kill take down the whole process group.
func detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		// setsid makes the child the leader of a group with pgid == pid.
		if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}
