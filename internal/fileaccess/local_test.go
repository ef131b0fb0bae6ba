package fileaccess

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalFixture(t *testing.T, files map[string]string) *Local {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	local, err := NewLocal(root)
	require.NoError(t, err)
	return local
}

func paths(handles []Handle) []string {
	out := make([]string, 0, len(handles))
	for _, h := range handles {
		out = append(out, h.Path())
	}
	return out
}

func TestNewLocalRejectsMissingRoot(t *testing.T) {
	_, err := NewLocal(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestNewLocalRejectsFileRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "data.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewLocal(file)
	assert.Error(t, err)
}

func TestLocalResolveExactFile(t *testing.T) {
	local := newLocalFixture(t, map[string]string{
		"data/a.csv": "a",
		"data/b.csv": "b",
	})

	handles, err := local.Resolve("data/a.csv")
	require.NoError(t, err)
	require.Len(t, handles, 1)
	assert.Equal(t, "data/a.csv", handles[0].Path())
	assert.Equal(t, "a.csv", handles[0].Name())
}

func TestLocalResolveDirectoryListsImmediateFiles(t *testing.T) {
	local := newLocalFixture(t, map[string]string{
		"data/b.csv":        "b",
		"data/a.csv":        "a",
		"data/nested/c.csv": "c",
	})

	handles, err := local.Resolve("data")
	require.NoError(t, err)
	// Nested files are not included and order is lexicographic.
	assert.Equal(t, []string{"data/a.csv", "data/b.csv"}, paths(handles))
}

func TestLocalResolveGlob(t *testing.T) {
	local := newLocalFixture(t, map[string]string{
		"data/a.csv":  "a",
		"data/b.csv":  "b",
		"data/c.json": "c",
	})

	handles, err := local.Resolve("data/*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/a.csv", "data/b.csv"}, paths(handles))
}

func TestLocalResolveRecursive(t *testing.T) {
	local := newLocalFixture(t, map[string]string{
		"logs/2026/01/app.log": "jan",
		"logs/2026/02/app.log": "feb",
		"logs/readme.txt":      "skip",
		"other/app.log":        "skip",
	})

	handles, err := local.Resolve("logs/**/*.log")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"logs/2026/01/app.log",
		"logs/2026/02/app.log",
	}, paths(handles))
}

func TestLocalResolveNoMatches(t *testing.T) {
	local := newLocalFixture(t, map[string]string{"a.txt": "a"})

	for _, pattern := range []string{"missing.txt", "*.csv", "nosuchdir/**/*.txt"} {
		handles, err := local.Resolve(pattern)
		require.NoError(t, err, pattern)
		assert.Empty(t, handles, pattern)
	}
}

func TestLocalResolveRejectsEscapes(t *testing.T) {
	local := newLocalFixture(t, map[string]string{"a.txt": "a"})

	for _, pattern := range []string{"../outside.txt", "data/../../x", ""} {
		_, err := local.Resolve(pattern)
		assert.Error(t, err, pattern)
	}
}

func TestLocalOpenReadsContent(t *testing.T) {
	local := newLocalFixture(t, map[string]string{"a.txt": "hello"})

	handles, err := local.Resolve("a.txt")
	require.NoError(t, err)
	require.Len(t, handles, 1)

	rc, err := local.Open(handles[0])
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalStatReportsSizeAndModTime(t *testing.T) {
	local := newLocalFixture(t, map[string]string{"a.txt": "hello"})

	handles, err := local.Resolve("a.txt")
	require.NoError(t, err)
	require.Len(t, handles, 1)

	info, err := handles[0].Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.False(t, info.ModTime.IsZero())
}

func TestLocalWriteCreatesParents(t *testing.T) {
	local := newLocalFixture(t, nil)

	require.NoError(t, local.Write("deep/nested/out.txt", strings.NewReader("payload")))

	handles, err := local.Resolve("deep/nested/out.txt")
	require.NoError(t, err)
	require.Len(t, handles, 1)

	rc, err := local.Open(handles[0])
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestLocalWriteOverwrites(t *testing.T) {
	local := newLocalFixture(t, map[string]string{"a.txt": "old content"})

	require.NoError(t, local.Write("a.txt", strings.NewReader("new")))

	handles, err := local.Resolve("a.txt")
	require.NoError(t, err)
	rc, err := local.Open(handles[0])
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestLocalRemove(t *testing.T) {
	local := newLocalFixture(t, map[string]string{"a.txt": "a"})

	removed, err := local.Remove("a.txt")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = local.Remove("a.txt")
	require.NoError(t, err)
	assert.False(t, removed)
}
