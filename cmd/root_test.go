package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTree creates root/{a.txt, sub/b.txt, skip/c.txt} and returns root in
// forward-slash form.
func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range []string{"a.txt", "sub/b.txt", "skip/c.txt"} {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0644))
	}
	return filepath.ToSlash(root)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func lines(out string) []string {
	fields := strings.Split(strings.TrimSpace(out), "\n")
	sort.Strings(fields)
	return fields
}

func TestListSyncAndAsync(t *testing.T) {
	root := newTree(t)
	want := []string{root + "/a.txt", root + "/skip/c.txt", root + "/sub/b.txt"}

	out, _, err := execute(t, "--silent", root)
	require.NoError(t, err)
	assert.Equal(t, want, lines(out))

	out, _, err = execute(t, "--silent", "--async", root)
	require.NoError(t, err)
	assert.Equal(t, want, lines(out))
}

func TestExcludeDir(t *testing.T) {
	root := newTree(t)

	out, _, err := execute(t, "--silent", "--exclude-dir", root+"/skip/", root)
	require.NoError(t, err)
	assert.Equal(t, []string{root + "/a.txt", root + "/sub/b.txt"}, lines(out))

	out, _, err = execute(t, "--silent", "-a", "-e", root+"/skip,"+root+"/sub", root)
	require.NoError(t, err)
	assert.Equal(t, []string{root + "/a.txt"}, lines(out))
}

func TestExcludeDirFromEnv(t *testing.T) {
	root := newTree(t)
	t.Setenv("ALLFILES_EXCLUDE_DIR", root+"/skip,"+root+"/sub")

	out, _, err := execute(t, "--silent", root)
	require.NoError(t, err)
	assert.Equal(t, []string{root + "/a.txt"}, lines(out))
}

func TestConfigFile(t *testing.T) {
	root := newTree(t)
	cfg := filepath.Join(t.TempDir(), "allfiles.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("count: true\nsilent: true\n"), 0644))

	out, _, err := execute(t, "--config", cfg, root)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	_, _, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), root)
	assert.Error(t, err)
}

func TestFormatAndJSON(t *testing.T) {
	root := newTree(t)

	out, _, err := execute(t, "--silent", "--format", "{base}", root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, lines(out))

	out, _, err = execute(t, "--silent", "--json", root+"/a.txt")
	require.NoError(t, err)
	var rec map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, root+"/a.txt", rec["path"])
}

func TestCountAndStats(t *testing.T) {
	root := newTree(t)

	out, stderr, err := execute(t, "--silent", "--count", "--stats", "--async", root)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
	assert.Contains(t, stderr, "Found: 3 files, listed 3 dirs")
}

func TestResolve(t *testing.T) {
	root := newTree(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(filepath.FromSlash(root)))

	out, _, err := execute(t, "--silent", "--resolve", "sub")
	require.NoError(t, err)
	got := strings.TrimSpace(out)
	assert.True(t, filepath.IsAbs(filepath.FromSlash(got)), "expected absolute path, got %q", got)
	assert.True(t, strings.HasSuffix(got, "/sub/b.txt"), "unexpected path %q", got)
}

func TestMissingRoot(t *testing.T) {
	_, _, err := execute(t, "--silent", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", "", "c,"}))
	assert.Nil(t, splitList(nil))
}
