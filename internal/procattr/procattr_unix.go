//go:build !windows

package procattr

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func apply(cmd *exec.Cmd, opts Options) {
	if opts.NewGroup {
		if cmd.SysProcAttr == nil {
			cmd.SysProcAttr = &syscall.SysProcAttr{}
		}
		cmd.SysProcAttr.Setpgid = true
	}
}

func kill(p *os.Process, group bool) error {
	if group {
		if err := unix.Kill(-p.Pid, unix.SIGKILL); err == nil {
			return nil
		}
	}
	return p.Kill()
}

func isNoSuchProcess(err error) bool {
	return errors.Is(err, unix.ESRCH)
}
