package container

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"launchpad/internal/procattr"
)

// ErrEngineUnavailable is returned when the container engine CLI cannot be
// launched or refuses to create the container.
var ErrEngineUnavailable = errors.New("container engine unavailable")

// Result is the captured outcome of one engine invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports a zero exit status.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Lines returns every non-empty, trimmed output line, stdout first.
func (r Result) Lines() []string {
	var lines []string
	for _, stream := range []string{r.Stdout, r.Stderr} {
		for _, line := range strings.Split(stream, "\n") {
			if l := strings.TrimSpace(line); l != "" {
				lines = append(lines, l)
			}
		}
	}
	return lines
}

// Runner executes an engine command. The returned error is reserved for
// launch failures (binary missing, permission denied); a command that ran and
// exited non-zero yields a nil error and a non-zero Result.ExitCode.
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) (Result, error)
}

// ExecRunner runs engine commands as child processes.
type ExecRunner struct {
	HideWindow bool
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, bin string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	procattr.Apply(cmd, procattr.Options{HideWindow: r.HideWindow})
	var out bytes.Buffer
	var errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	err := cmd.Run()

	res := Result{Stdout: out.String(), Stderr: errBuf.String()}
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			res.ExitCode = ee.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, err
	}
	return res, nil
}

// engineLabel is the short name used to prefix captured engine output.
func engineLabel(bin string) string {
	base := filepath.Base(bin)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
