//go:build !unix && !windows

package git

import "os/exec"

// detach is a no-op on platforms without sessions or console windows.
func detach(_ *exec.Cmd) {}
