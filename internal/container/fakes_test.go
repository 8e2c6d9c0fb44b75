package container

import (
	"context"
	"strings"
	"sync"
)

type call struct {
	bin  string
	args []string
}

func (c call) String() string { return c.bin + " " + strings.Join(c.args, " ") }

type response struct {
	res Result
	err error
}

// fakeRunner returns scripted responses keyed by the engine subcommand.
type fakeRunner struct {
	mu        sync.Mutex
	calls     []call
	responses map[string]response
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]response{}}
}

func (f *fakeRunner) on(subcommand string, res Result, err error) *fakeRunner {
	f.responses[subcommand] = response{res: res, err: err}
	return f
}

func (f *fakeRunner) Run(ctx context.Context, bin string, args ...string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{bin: bin, args: args})
	if len(args) > 0 {
		if r, ok := f.responses[args[0]]; ok {
			return r.res, r.err
		}
	}
	return Result{}, nil
}

func (f *fakeRunner) subcommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		out = append(out, c.args[0])
	}
	return out
}

type fakeProber struct{ reachable bool }

func (p fakeProber) Reachable(context.Context, int) bool { return p.reachable }

type logCollector struct {
	mu    sync.Mutex
	lines []string
}

func (l *logCollector) AddLog(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

func (l *logCollector) joined() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}
