package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func newResolver() Resolver {
	return Resolver{SearchDepth: 6, Subdir: "backend", Entry: "dist/server.js", Marker: "package.json"}
}

// checkout creates root/backend/package.json and, when built, the entry.
func checkout(t *testing.T, root string, built bool) {
	t.Helper()
	touch(t, filepath.Join(root, "backend", "package.json"))
	if built {
		touch(t, filepath.Join(root, "backend", "dist", "server.js"))
	}
}

func TestResolve_ProjectRootFromBuildTime(t *testing.T) {
	root := t.TempDir()
	checkout(t, root, true)

	r := newResolver()
	r.ProjectRoot = root
	r.ResourceDir = t.TempDir()
	touch(t, filepath.Join(r.ResourceDir, "backend", "dist", "server.js"))

	got, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Pair{
		Entry:   filepath.Join(root, "backend", "dist", "server.js"),
		WorkDir: filepath.Join(root, "backend"),
	}, got, "the project root beats the resource layout")
}

func TestFindProjectRoot_WalksUpward(t *testing.T) {
	root := t.TempDir()
	checkout(t, root, false)
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	r := newResolver()
	r.ProjectRoot = filepath.Join(t.TempDir(), "stale")
	r.Start = deep
	assert.Equal(t, root, r.FindProjectRoot())
}

func TestFindProjectRoot_DepthBound(t *testing.T) {
	root := t.TempDir()
	checkout(t, root, false)
	deep := filepath.Join(root, "1", "2", "3", "4", "5", "6")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	r := newResolver()
	r.Start = deep
	assert.Empty(t, r.FindProjectRoot(), "root is seven levels up, beyond the search depth")

	r.Start = filepath.Dir(deep)
	assert.Equal(t, root, r.FindProjectRoot())
}

func TestResolve_UnbuiltCheckoutFallsBackToResources(t *testing.T) {
	root := t.TempDir()
	checkout(t, root, false)
	res := t.TempDir()
	touch(t, filepath.Join(res, "backend", "dist", "server.js"))

	r := newResolver()
	r.Start = root
	r.ResourceDir = res

	got, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(res, "backend"), got.WorkDir)
}

func TestResolve_FlattenedResources(t *testing.T) {
	res := t.TempDir()
	touch(t, filepath.Join(res, "dist", "server.js"))

	r := newResolver()
	r.ResourceDir = res

	got, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Pair{Entry: filepath.Join(res, "dist", "server.js"), WorkDir: res}, got)
}

func TestResolve_NotFound(t *testing.T) {
	r := newResolver()
	r.Start = t.TempDir()
	r.ResourceDir = t.TempDir()

	_, err := r.Resolve()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, r.Candidates(), 2)
}

func TestCandidates_Order(t *testing.T) {
	root := t.TempDir()
	checkout(t, root, false)

	r := newResolver()
	r.ProjectRoot = root
	r.ResourceDir = "/res"

	assert.Equal(t, []Pair{
		{Entry: filepath.Join(root, "backend", "dist", "server.js"), WorkDir: filepath.Join(root, "backend")},
		{Entry: filepath.Join("/res", "backend", "dist", "server.js"), WorkDir: filepath.Join("/res", "backend")},
		{Entry: filepath.Join("/res", "dist", "server.js"), WorkDir: "/res"},
	}, r.Candidates())
}
