package supervisor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"launchpad/internal/procattr"
	"launchpad/pkg/logging"
)

// ErrRuntimeNotFound means no candidate answered the version query.
var ErrRuntimeNotFound = errors.New("runtime not found")

// versionTimeout bounds a single version query so a hanging shim cannot
// stall discovery.
const versionTimeout = 10 * time.Second

// CandidateOptions feeds Candidates.
type CandidateOptions struct {
	ResourceDir    string
	BundledRuntime string // relative to ResourceDir
	Runtime        string // bare name looked up through PATH
	GOOS           string
	Getenv         func(string) string
}

// Candidates returns runtime executables in priority order: the bundled
// runtime, the bare name, then well-known install locations.
func Candidates(opts CandidateOptions) []string {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	name := opts.Runtime
	if name == "" {
		name = "node"
	}

	var out []string
	if opts.ResourceDir != "" && opts.BundledRuntime != "" {
		out = append(out, filepath.Join(opts.ResourceDir, filepath.FromSlash(opts.BundledRuntime)))
	}
	out = append(out, name)

	if opts.GOOS == "windows" {
		exe := name + ".exe"
		if pf := getenv("ProgramFiles"); pf != "" {
			out = append(out, filepath.Join(pf, "nodejs", exe))
		}
		if pf86 := getenv("ProgramFiles(x86)"); pf86 != "" {
			out = append(out, filepath.Join(pf86, "nodejs", exe))
		}
		if lad := getenv("LocalAppData"); lad != "" {
			out = append(out, filepath.Join(lad, "Programs", "nodejs", exe))
		}
		return out
	}

	out = append(out,
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/opt/homebrew/bin", name),
	)
	if home := getenv("HOME"); home != "" {
		out = append(out, filepath.Join(home, ".volta", "bin", name))
	}
	return out
}

// Discover returns the first candidate that exists (when path-like) and
// exits successfully when asked for its version.
func (s *Supervisor) Discover(ctx context.Context) (string, error) {
	for _, candidate := range s.Candidates {
		if s.validate(ctx, candidate) {
			s.report("Using runtime: %s", candidate)
			return candidate, nil
		}
		logging.Debug("Supervisor", "Runtime candidate rejected: %s", candidate)
	}
	s.report("⚠ %s not found in PATH or common locations, install it first", s.runtimeLabel())
	return "", ErrRuntimeNotFound
}

func (s *Supervisor) validate(ctx context.Context, candidate string) bool {
	if s.validateFn != nil {
		return s.validateFn(ctx, candidate)
	}
	if isPathLike(candidate) {
		if _, err := os.Stat(candidate); err != nil {
			return false
		}
	}

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	flag := s.VersionFlag
	if flag == "" {
		flag = "--version"
	}
	cmd := exec.CommandContext(ctx, candidate, flag)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	procattr.Apply(cmd, procattr.Options{HideWindow: s.HideWindow})
	return cmd.Run() == nil
}

func isPathLike(candidate string) bool {
	return filepath.IsAbs(candidate) || strings.ContainsAny(candidate, `/\`)
}

func (s *Supervisor) runtimeLabel() string {
	if len(s.Candidates) == 0 {
		return "Runtime"
	}
	for _, c := range s.Candidates {
		if !isPathLike(c) {
			return c
		}
	}
	return filepath.Base(s.Candidates[0])
}
