// Package paths locates the backend entry file and its working directory
// across developer checkouts and installed layouts.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"launchpad/pkg/logging"
)

// ErrNotFound means no candidate layout had both an entry file and a
// working directory on disk.
var ErrNotFound = errors.New("backend entry point not found")

// Pair is a resolved backend location.
type Pair struct {
	Entry   string
	WorkDir string
}

// Resolver evaluates candidate layouts in priority order:
//
//  1. a project root: ProjectRoot when it holds Subdir/Marker, otherwise the
//     first of Start and up to SearchDepth-1 of its ancestors that does
//  2. ResourceDir/Subdir
//  3. ResourceDir itself
type Resolver struct {
	ProjectRoot string // build-time checkout root, may be empty
	Start       string // directory the upward search starts from
	ResourceDir string
	SearchDepth int

	Subdir string // "backend"
	Entry  string // "dist/server.js", relative to the backend directory
	Marker string // "package.json", relative to the backend directory
}

// FindProjectRoot returns the directory holding Subdir/Marker, or "".
func (r Resolver) FindProjectRoot() string {
	if r.ProjectRoot != "" && r.hasMarker(r.ProjectRoot) {
		return r.ProjectRoot
	}
	if r.Start == "" {
		return ""
	}
	dir := filepath.Clean(r.Start)
	for i := 0; i < r.SearchDepth; i++ {
		if r.hasMarker(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func (r Resolver) hasMarker(root string) bool {
	return exists(filepath.Join(root, r.Subdir, filepath.FromSlash(r.Marker)))
}

// Candidates returns every layout in priority order without checking that
// it exists.
func (r Resolver) Candidates() []Pair {
	entry := filepath.FromSlash(r.Entry)
	var out []Pair
	if root := r.FindProjectRoot(); root != "" {
		dir := filepath.Join(root, r.Subdir)
		out = append(out, Pair{Entry: filepath.Join(dir, entry), WorkDir: dir})
	}
	if r.ResourceDir != "" {
		dir := filepath.Join(r.ResourceDir, r.Subdir)
		out = append(out,
			Pair{Entry: filepath.Join(dir, entry), WorkDir: dir},
			Pair{Entry: filepath.Join(r.ResourceDir, entry), WorkDir: r.ResourceDir},
		)
	}
	return out
}

// Resolve returns the first candidate whose entry file and working
// directory both exist.
func (r Resolver) Resolve() (Pair, error) {
	candidates := r.Candidates()
	for _, c := range candidates {
		if exists(c.Entry) && exists(c.WorkDir) {
			logging.Debug("Paths", "Backend resolved: entry=%s cwd=%s", c.Entry, c.WorkDir)
			return c, nil
		}
		logging.Debug("Paths", "Skipping incomplete layout: entry=%s cwd=%s", c.Entry, c.WorkDir)
	}
	return Pair{}, fmt.Errorf("%w (tried %d layouts)", ErrNotFound, len(candidates))
}

// ExecutableDir returns the directory of the running binary with symlinks
// resolved; it is the default resource directory.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
