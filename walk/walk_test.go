package walk_test

import (
	"context"
	"sort"
	"testing"

	"github.com/TFMV/allfiles/walk"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T) afero.Fs {
	t.Helper()
	mem := afero.NewMemMapFs()
	for _, f := range []string{
		"/repo/main.go",
		"/repo/README.md",
		"/repo/vendor/lib/lib.go",
		"/repo/internal/pkg/pkg.go",
		"/repo/internal/pkg/pkg_test.go",
	} {
		require.NoError(t, afero.WriteFile(mem, f, []byte("x"), 0644))
	}
	return mem
}

func TestWalkersAgree(t *testing.T) {
	opts := walk.Options{FS: walk.NewAferoFS(newTree(t))}

	syncPaths, err := walk.WalkSync("/repo", opts).Collect()
	require.NoError(t, err)
	asyncPaths, err := walk.WalkAsync("/repo", opts).Collect(context.Background())
	require.NoError(t, err)

	sort.Strings(syncPaths)
	sort.Strings(asyncPaths)
	assert.Equal(t, syncPaths, asyncPaths)
	assert.Len(t, syncPaths, 5)
}

func TestExcludeDirs(t *testing.T) {
	opts := walk.Options{
		FS:            walk.NewAferoFS(newTree(t)),
		IsExcludedDir: walk.ExcludeDirs("/repo/vendor/", `\repo\internal`),
	}

	paths, err := walk.WalkSync("/repo", opts).Collect()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/repo/main.go", "/repo/README.md"}, paths)

	paths, err = walk.WalkAsync("/repo", opts).Collect(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/repo/main.go", "/repo/README.md"}, paths)
}

func TestErrorKinds(t *testing.T) {
	opts := walk.Options{FS: walk.NewAferoFS(afero.NewMemMapFs())}

	_, err := walk.WalkAsync("/nope", opts).Collect(context.Background())
	require.Error(t, err)
	assert.Equal(t, walk.KindNotFound, walk.KindOf(err))

	var pe *walk.PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "/nope", pe.Path)
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "pkg_test.go in /repo/internal/pkg", walk.FormatPath("{base} in {dir}", "/repo/internal/pkg/pkg_test.go"))
}
