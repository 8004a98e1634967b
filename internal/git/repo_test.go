package git_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/testhelpers"
)

func TestResolveRepository(t *testing.T) {
	t.Run("subdirectories share the work tree key", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		sub := filepath.Join(scene.Dir, "nested", "dir")
		require.NoError(t, os.MkdirAll(sub, 0o750))

		handle, err := git.ResolveRepository(sub)
		require.NoError(t, err)
		require.Equal(t, sub, handle.Dir)
		require.Equal(t, scene.Dir, handle.Key)

		root, err := git.ResolveRepository(scene.Dir)
		require.NoError(t, err)
		require.Equal(t, handle.Key, root.Key)
	})

	t.Run("symlinks resolve to the same key", func(t *testing.T) {
		skipOnWindows(t)
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		link := filepath.Join(t.TempDir(), "link")
		require.NoError(t, os.Symlink(scene.Dir, link))

		handle, err := git.ResolveRepository(link)
		require.NoError(t, err)
		require.Equal(t, scene.Dir, handle.Key)
	})

	t.Run("plain directories key by their own path", func(t *testing.T) {
		dir, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)

		handle, err := git.ResolveRepository(dir)
		require.NoError(t, err)
		require.Equal(t, dir, handle.Key)
		require.Equal(t, dir, handle.Dir)
	})

	t.Run("blank directory is rejected", func(t *testing.T) {
		_, err := git.ResolveRepository("  ")
		require.Error(t, err)
	})
}

func TestRemoteExists(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)

	ok, err := git.RemoteExists(scene.Dir, "origin")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = git.RemoteExists(scene.Dir, "upstream")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = git.RemoteExists(t.TempDir(), "origin")
	require.Error(t, err)
}

func TestLocalBranchesAndRemotes(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
	require.NoError(t, scene.Repo.RunGitCommand("branch", "feature/a"))
	require.NoError(t, scene.Repo.RunGitCommand("remote", "add", "backup", scene.RemoteDir()))

	branches, err := git.LocalBranches(scene.Dir)
	require.NoError(t, err)
	require.Equal(t, []string{"feature/a", "main"}, branches)

	remotes, err := git.RemoteNames(scene.Dir)
	require.NoError(t, err)
	require.Equal(t, []string{"backup", "origin"}, remotes)

	_, err = git.LocalBranches(t.TempDir())
	require.Error(t, err)
}
