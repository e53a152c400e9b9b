//go:build unix

package converter

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts cmd in its own process group so a timeout also
// reaches the processes it spawned.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
