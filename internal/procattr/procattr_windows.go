//go:build windows

package procattr

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func apply(cmd *exec.Cmd, opts Options) {
	if opts.HideWindow {
		if cmd.SysProcAttr == nil {
			cmd.SysProcAttr = &syscall.SysProcAttr{}
		}
		cmd.SysProcAttr.HideWindow = true
		cmd.SysProcAttr.CreationFlags |= windows.CREATE_NO_WINDOW
	}
}

func kill(p *os.Process, _ bool) error {
	return p.Kill()
}

func isNoSuchProcess(err error) bool {
	return false
}
