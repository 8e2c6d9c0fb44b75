// Package procattr applies platform specific attributes to spawned commands:
// hiding the console window on Windows and giving long-lived children their
// own process group on unix so they can be killed as a unit.
package procattr

import (
	"errors"
	"os"
	"os/exec"
)

// Options selects the attributes Apply sets.
type Options struct {
	HideWindow bool
	NewGroup   bool
}

// Apply sets the platform attributes for opts on cmd. It must be called
// before cmd is started.
func Apply(cmd *exec.Cmd, opts Options) *exec.Cmd {
	apply(cmd, opts)
	return cmd
}

// Kill forcefully stops p, including its process group when the process was
// started with NewGroup. A process that already exited is not an error.
func Kill(p *os.Process, group bool) error {
	if p == nil {
		return nil
	}
	err := kill(p, group)
	if err == nil || errors.Is(err, os.ErrProcessDone) || isNoSuchProcess(err) {
		return nil
	}
	return err
}
