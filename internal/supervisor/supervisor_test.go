//go:build !windows

package supervisor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/procattr"
)

type logCollector struct {
	mu    sync.Mutex
	lines []string
}

func (l *logCollector) AddLog(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

func (l *logCollector) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// fakeRuntime answers --version and otherwise runs its first argument as a
// shell script, standing in for a real interpreter.
const fakeRuntime = `#!/bin/sh
if [ "$1" = "--version" ]; then echo v20.11.0; exit 0; fi
exec /bin/sh "$1"
`

const brokenRuntime = `#!/bin/sh
exit 1
`

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

func TestCandidates(t *testing.T) {
	env := map[string]string{
		"ProgramFiles":      `C:\Program Files`,
		"ProgramFiles(x86)": `C:\Program Files (x86)`,
		"LocalAppData":      `C:\Users\me\AppData\Local`,
	}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		name     string
		opts     CandidateOptions
		expected []string
	}{
		{
			name: "unix with bundled runtime",
			opts: CandidateOptions{ResourceDir: "/opt/app", BundledRuntime: "node/bin/node", Runtime: "node", GOOS: "linux", Getenv: getenv},
			expected: []string{
				filepath.Join("/opt/app", "node", "bin", "node"),
				"node",
				"/usr/local/bin/node",
				"/opt/homebrew/bin/node",
			},
		},
		{
			name: "unix without resource dir adds volta shim from HOME",
			opts: CandidateOptions{Runtime: "node", GOOS: "darwin", Getenv: func(k string) string {
				if k == "HOME" {
					return "/Users/me"
				}
				return ""
			}},
			expected: []string{
				"node",
				"/usr/local/bin/node",
				"/opt/homebrew/bin/node",
				filepath.Join("/Users/me", ".volta", "bin", "node"),
			},
		},
		{
			name: "windows install locations",
			opts: CandidateOptions{ResourceDir: "/app", BundledRuntime: "node/node.exe", Runtime: "node", GOOS: "windows", Getenv: getenv},
			expected: []string{
				filepath.Join("/app", "node", "node.exe"),
				"node",
				filepath.Join(`C:\Program Files`, "nodejs", "node.exe"),
				filepath.Join(`C:\Program Files (x86)`, "nodejs", "node.exe"),
				filepath.Join(`C:\Users\me\AppData\Local`, "Programs", "nodejs", "node.exe"),
			},
		},
		{
			name:     "windows without environment",
			opts:     CandidateOptions{GOOS: "windows", Getenv: func(string) string { return "" }},
			expected: []string{"node"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Candidates(tt.opts))
		})
	}
}

func TestDiscover_SkipsInvalidCandidates(t *testing.T) {
	dir := t.TempDir()
	broken := writeScript(t, dir, "broken", brokenRuntime)
	good := writeScript(t, dir, "good", fakeRuntime)
	logs := &logCollector{}

	s := New([]string{
		filepath.Join(dir, "missing"),
		"launchpad-no-such-runtime",
		broken,
		good,
	}, nil, logs)

	got, err := s.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, good, got)
	assert.Equal(t, []string{"Using runtime: " + good}, logs.all())
}

func TestDiscover_NothingWorks(t *testing.T) {
	dir := t.TempDir()
	logs := &logCollector{}
	s := New([]string{writeScript(t, dir, "broken", brokenRuntime), "launchpad-no-such-runtime"}, nil, logs)

	_, err := s.Discover(context.Background())
	assert.ErrorIs(t, err, ErrRuntimeNotFound)
	require.Len(t, logs.all(), 1)
	assert.Contains(t, logs.all()[0], "launchpad-no-such-runtime not found in PATH or common locations")
}

func TestSpawn_EnvironmentCwdAndAppendLogs(t *testing.T) {
	dir := t.TempDir()
	runtime := writeScript(t, dir, "runtime", fakeRuntime)
	workDir := t.TempDir()
	logDir := filepath.Join(t.TempDir(), "logs")
	entry := writeScript(t, workDir, "server.js", `echo "hello $GREETING"
pwd
echo oops 1>&2
sleep 30
`)
	require.NoError(t, os.MkdirAll(logDir, 0o755))
	stdoutPath := filepath.Join(logDir, "backend.log")
	require.NoError(t, os.WriteFile(stdoutPath, []byte("previous run\n"), 0o644))

	s := New(nil, nil, nil)
	h, err := s.Spawn(Request{
		Runtime:   runtime,
		Entry:     entry,
		WorkDir:   workDir,
		Env:       []string{"PATH=" + os.Getenv("PATH"), "GREETING=world"},
		LogDir:    logDir,
		StdoutLog: "backend.log",
		StderrLog: "backend-error.log",
	})
	require.NoError(t, err)
	assert.Greater(t, h.Pid(), 0)
	assert.Equal(t, runtime, h.Runtime())

	require.Eventually(t, func() bool {
		return strings.Contains(readFile(t, stdoutPath), "hello world") &&
			strings.Contains(readFile(t, filepath.Join(logDir, "backend-error.log")), "oops")
	}, 5*time.Second, 20*time.Millisecond)

	out := readFile(t, stdoutPath)
	assert.True(t, strings.HasPrefix(out, "previous run\n"), "stdout log is appended to")
	realWorkDir, err := filepath.EvalSymlinks(workDir)
	require.NoError(t, err)
	assert.Contains(t, out, realWorkDir)

	assert.False(t, h.Exited())
	require.NoError(t, h.Terminate())
	assert.True(t, h.Exited())
	assert.NoError(t, h.Terminate(), "terminating twice is harmless")
}

func TestSpawn_MissingRuntime(t *testing.T) {
	s := New(nil, nil, nil)
	_, err := s.Spawn(Request{Runtime: filepath.Join(t.TempDir(), "nope"), Entry: "server.js"})
	assert.ErrorIs(t, err, ErrSpawnFailure)
}

func TestHandle_TerminateAfterExit(t *testing.T) {
	dir := t.TempDir()
	runtime := writeScript(t, dir, "runtime", fakeRuntime)
	entry := writeScript(t, dir, "server.js", "exit 3\n")

	h, err := New(nil, nil, nil).Spawn(Request{Runtime: runtime, Entry: entry, WorkDir: dir})
	require.NoError(t, err)

	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("child did not exit")
	}
	assert.NoError(t, h.Terminate(), "an already exited child is not an error")
}

func TestLaunch_RegistersAndReplaces(t *testing.T) {
	dir := t.TempDir()
	runtime := writeScript(t, dir, "runtime", fakeRuntime)
	entry := writeScript(t, dir, "server.js", "sleep 30\n")
	logs := &logCollector{}
	s := New([]string{runtime}, NewRegistry(), logs)
	req := Request{Entry: entry, WorkDir: dir, Env: []string{"PATH=" + os.Getenv("PATH")}}

	before := time.Now()
	first, err := s.Launch(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, first, s.Registry().Current())
	assert.False(t, first.StartedAt().Before(before))
	assert.Equal(t, runtime, first.Runtime())

	second, err := s.Launch(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, second, s.Registry().Current())
	assert.True(t, first.Exited(), "the replaced child is terminated")

	require.NoError(t, s.Registry().Shutdown())
	assert.True(t, second.Exited())
	assert.Nil(t, s.Registry().Current())

	lines := logs.all()
	assert.Contains(t, lines, "Using runtime: "+runtime)
	assert.Contains(t, lines[1], "✓ Backend process spawned (pid ")
}

func TestLaunch_NoRuntime(t *testing.T) {
	logs := &logCollector{}
	s := New([]string{"launchpad-no-such-runtime"}, nil, logs)

	_, err := s.Launch(context.Background(), Request{Entry: "server.js"})
	assert.ErrorIs(t, err, ErrRuntimeNotFound)
	assert.Nil(t, s.Registry().Current())
}

func TestLaunch_SpawnFailureIsReported(t *testing.T) {
	logs := &logCollector{}
	s := New(nil, nil, logs)

	_, err := s.Launch(context.Background(), Request{Runtime: filepath.Join(t.TempDir(), "nope"), Entry: "server.js"})
	assert.ErrorIs(t, err, ErrSpawnFailure)
	require.Len(t, logs.all(), 1)
	assert.True(t, strings.HasPrefix(logs.all()[0], "⚠ Failed to spawn backend: "))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Current())
	assert.Nil(t, r.Take())
	assert.NoError(t, r.Shutdown(), "shutdown without a child is a no-op")

	h := &Handle{}
	assert.Nil(t, r.Set(h))
	assert.Same(t, h, r.Current())
	assert.Same(t, h, r.Set(nil))
}

func TestHandle_TerminateBoundedWhenKillFails(t *testing.T) {
	dir := t.TempDir()
	runtime := writeScript(t, dir, "runtime", fakeRuntime)
	entry := writeScript(t, dir, "server.js", "sleep 30\n")

	h, err := New(nil, nil, nil).Spawn(Request{Runtime: runtime, Entry: entry, WorkDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = procattr.Kill(h.cmd.Process, true)
		<-h.Done()
	})

	origKill, origWait := killProcess, abandonWait
	t.Cleanup(func() { killProcess, abandonWait = origKill, origWait })
	denied := errors.New("operation not permitted")
	killProcess = func(*os.Process, bool) error { return denied }
	abandonWait = 100 * time.Millisecond

	result := make(chan error, 1)
	go func() { result <- h.Terminate() }()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, denied)
	case <-time.After(5 * time.Second):
		t.Fatal("Terminate blocked on a child it could not kill")
	}
	assert.False(t, h.Exited())
}
