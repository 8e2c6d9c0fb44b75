package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"launchpad/internal/procattr"
	"launchpad/pkg/logging"
)

// ErrSpawnFailure wraps any error that prevented the backend from starting.
var ErrSpawnFailure = errors.New("failed to spawn backend")

// abandonWait bounds how long Terminate waits for a child it failed to kill.
var abandonWait = 5 * time.Second

var killProcess = procattr.Kill

// Reporter receives human readable progress lines.
type Reporter interface {
	AddLog(msg string)
}

// Supervisor discovers a runtime, spawns the backend and records the child
// in its Registry.
type Supervisor struct {
	Candidates  []string
	VersionFlag string
	HideWindow  bool

	registry *Registry
	reporter Reporter

	// validateFn replaces the version query in tests.
	validateFn func(ctx context.Context, candidate string) bool
}

// New creates a Supervisor that records children in registry.
func New(candidates []string, registry *Registry, reporter Reporter) *Supervisor {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Supervisor{
		Candidates:  candidates,
		VersionFlag: "--version",
		registry:    registry,
		reporter:    reporter,
	}
}

// Registry returns the registry holding the spawned child.
func (s *Supervisor) Registry() *Registry {
	return s.registry
}

// Request describes one backend launch.
type Request struct {
	// Runtime skips discovery when set.
	Runtime string
	Entry   string
	WorkDir string
	// Env is the complete child environment in KEY=VALUE form.
	Env []string

	// LogDir receives StdoutLog and StderrLog, both opened for append.
	LogDir    string
	StdoutLog string
	StderrLog string
}

// Launch discovers a runtime when needed, spawns the backend and registers
// the child. A previously registered child is terminated first.
func (s *Supervisor) Launch(ctx context.Context, req Request) (*Handle, error) {
	if req.Runtime == "" {
		runtime, err := s.Discover(ctx)
		if err != nil {
			return nil, err
		}
		req.Runtime = runtime
	}

	h, err := s.spawn(req)
	if err != nil {
		s.report("⚠ Failed to spawn backend: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailure, err)
	}
	s.report("✓ Backend process spawned (pid %d)", h.Pid())

	if prev := s.registry.Set(h); prev != nil {
		logging.Warn("Supervisor", "Replacing backend pid %d", prev.Pid())
		if err := prev.Terminate(); err != nil {
			logging.Error("Supervisor", err, "Failed to terminate previous backend")
		}
	}
	return h, nil
}

// Spawn starts `<runtime> <entry>` in req.WorkDir with exactly req.Env. The
// child gets its own process group and no console window. Spawn does not
// wait for the child and does not register it.
func (s *Supervisor) Spawn(req Request) (*Handle, error) {
	h, err := s.spawn(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailure, err)
	}
	return h, nil
}

func (s *Supervisor) spawn(req Request) (*Handle, error) {
	if req.Runtime == "" || req.Entry == "" {
		return nil, errors.New("runtime and entry are required")
	}

	stdout := openAppend(req.LogDir, req.StdoutLog)
	stderr := openAppend(req.LogDir, req.StderrLog)

	cmd := exec.Command(req.Runtime, req.Entry)
	cmd.Dir = req.WorkDir
	cmd.Env = req.Env
	if stdout != nil {
		cmd.Stdout = stdout
	}
	if stderr != nil {
		cmd.Stderr = stderr
	}
	procattr.Apply(cmd, procattr.Options{HideWindow: s.HideWindow, NewGroup: true})

	if err := cmd.Start(); err != nil {
		closeAll(stdout, stderr)
		return nil, err
	}
	logging.Info("Supervisor", "Spawned %s %s (pid %d, cwd %s)", req.Runtime, req.Entry, cmd.Process.Pid, req.WorkDir)

	h := &Handle{
		cmd:       cmd,
		runtime:   req.Runtime,
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
	go func() {
		h.waitErr = cmd.Wait()
		closeAll(stdout, stderr)
		close(h.done)
		logging.Debug("Supervisor", "Backend pid %d exited: %v", cmd.Process.Pid, h.waitErr)
	}()
	return h, nil
}

func (s *Supervisor) report(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if s.reporter != nil {
		s.reporter.AddLog(msg)
		return
	}
	logging.Info("Supervisor", "%s", msg)
}

// openAppend opens dir/name for appending, creating dir when needed. It
// returns nil when the file cannot be opened; the stream is then discarded.
func openAppend(dir, name string) *os.File {
	if name == "" {
		return nil
	}
	path := name
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Warn("Supervisor", "Cannot create log dir %s: %v", dir, err)
			return nil
		}
		path = filepath.Join(dir, name)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logging.Warn("Supervisor", "Cannot open %s, output discarded: %v", path, err)
		return nil
	}
	return f
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}

// Handle is a spawned backend child.
type Handle struct {
	cmd       *exec.Cmd
	runtime   string
	startedAt time.Time

	done    chan struct{}
	waitErr error

	once sync.Once
	err  error
}

// Pid returns the child's process id.
func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

// Runtime returns the executable the child runs under.
func (h *Handle) Runtime() string {
	return h.runtime
}

// StartedAt returns when the child was spawned.
func (h *Handle) StartedAt() time.Time {
	return h.startedAt
}

// Exited reports whether the child has been reaped.
func (h *Handle) Exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done is closed once the child has been reaped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Terminate kills the child and its process group, then blocks until it is
// reaped. A child that already exited is not an error. When the kill fails
// the wait is bounded by abandonWait. Safe to call more than once.
func (h *Handle) Terminate() error {
	h.once.Do(func() {
		if !h.Exited() {
			h.err = killProcess(h.cmd.Process, true)
		}
		if h.err == nil {
			<-h.done
			return
		}
		select {
		case <-h.done:
		case <-time.After(abandonWait):
			logging.Warn("Supervisor", "Backend pid %d still running after failed kill: %v", h.Pid(), h.err)
		}
	})
	return h.err
}
