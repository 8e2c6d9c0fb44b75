package startup

import (
	"context"
	"strings"
	"sync"
	"time"

	"launchpad/internal/container"
	"launchpad/internal/supervisor"
)

// fakeRunner answers engine invocations by subcommand and records them.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []string
	results map[string]container.Result
	errs    map[string]error
}

func (f *fakeRunner) Run(_ context.Context, bin string, args ...string) (container.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, bin+" "+strings.Join(args, " "))
	if len(args) > 0 {
		if err, ok := f.errs[args[0]]; ok {
			return container.Result{}, err
		}
		if res, ok := f.results[args[0]]; ok {
			return res, nil
		}
	}
	return container.Result{}, nil
}

func (f *fakeRunner) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type probeCall struct {
	port     int
	attempts int
}

// fakeProber reports ports listed in open as reachable.
type fakeProber struct {
	mu     sync.Mutex
	open   map[int]bool
	probes []probeCall
}

func (f *fakeProber) Reachable(_ context.Context, port int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open[port]
}

func (f *fakeProber) Probe(_ context.Context, port int, attempts int, _ time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes = append(f.probes, probeCall{port: port, attempts: attempts})
	return f.open[port]
}

// fakeLauncher captures the launch request instead of spawning.
type fakeLauncher struct {
	requests []supervisor.Request
	err      error
}

func (f *fakeLauncher) Launch(_ context.Context, req supervisor.Request) (*supervisor.Handle, error) {
	f.requests = append(f.requests, req)
	return nil, f.err
}

// entryRecorder is a Sink keeping every entry.
type entryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *entryRecorder) Record(_ string, e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// phases returns the distinct phases in the order they were first seen.
func (r *entryRecorder) phases() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Phase
	for _, e := range r.entries {
		if len(out) == 0 || out[len(out)-1] != e.Phase {
			out = append(out, e.Phase)
		}
	}
	return out
}

func containsLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}
