package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/testhelpers"
)

const stagePatch = "diff --git a/a.txt b/a.txt\n--- a/a.txt\n+++ b/a.txt\n@@ -1,2 +1,2 @@\n-old\n+new\n keep\n"

const twoHunkPatch = stagePatch + "@@ -10,1 +10,1 @@\n-x\n+y\n"

func patchScene(t *testing.T) *testhelpers.Scene {
	t.Helper()
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CommitFile("a.txt", "old\nkeep\n", "add a"))
	require.NoError(t, scene.Repo.WriteFile("a.txt", "new\nkeep\n"))
	return scene
}

func strictPatches() testhelpers.ContextOption {
	return testhelpers.WithSettings(map[string]any{"gitStrictPatchValidation": true})
}

func TestApplyPatchAction(t *testing.T) {
	t.Run("stages a patch", func(t *testing.T) {
		scene := patchScene(t)
		ctx := testhelpers.NewTestContext(t, nil, strictPatches())

		res, err := actions.ApplyPatchAction(ctx, actions.ApplyPatchOptions{Dir: scene.Dir, Patch: stagePatch, Mode: "stage-hunk"})
		require.NoError(t, err)
		require.True(t, res.Success)

		staged, err := scene.Repo.RunGitCommandAndGetOutput("diff", "--cached", "--name-only")
		require.NoError(t, err)
		require.Equal(t, "a.txt", staged)
	})

	t.Run("discards a patch from the working tree", func(t *testing.T) {
		scene := patchScene(t)
		ctx := testhelpers.NewTestContext(t, nil)

		_, err := actions.ApplyPatchAction(ctx, actions.ApplyPatchOptions{Dir: scene.Dir, Patch: stagePatch, Mode: "discard"})
		require.NoError(t, err)
		content, err := scene.Repo.ReadFile("a.txt")
		require.NoError(t, err)
		require.Equal(t, "old\nkeep\n", content)
	})

	t.Run("keeps a trailing blank context line", func(t *testing.T) {
		const blankTail = "diff --git a/b.txt b/b.txt\n--- a/b.txt\n+++ b/b.txt\n@@ -1,2 +1,2 @@\n-old\n+new\n \n"
		for _, strict := range []bool{true, false} {
			scene := testhelpers.NewScene(t, nil)
			require.NoError(t, scene.Repo.CommitFile("b.txt", "old\n\n", "add b"))
			require.NoError(t, scene.Repo.WriteFile("b.txt", "new\n\n"))
			ctx := testhelpers.NewTestContext(t, nil,
				testhelpers.WithSettings(map[string]any{"gitStrictPatchValidation": strict}))

			_, err := actions.ApplyPatchAction(ctx, actions.ApplyPatchOptions{Dir: scene.Dir, Patch: blankTail, Mode: "stage"})
			require.NoError(t, err, "strict=%v", strict)

			staged, err := scene.Repo.RunGitCommandAndGetOutput("diff", "--cached", "--name-only")
			require.NoError(t, err)
			require.Equal(t, "b.txt", staged)
		}
	})

	t.Run("stale patch conflicts", func(t *testing.T) {
		scene := patchScene(t)
		require.NoError(t, scene.Repo.WriteFile("a.txt", "something else\n"))
		ctx := testhelpers.NewTestContext(t, nil)

		_, err := actions.ApplyPatchAction(ctx, actions.ApplyPatchOptions{Dir: scene.Dir, Patch: stagePatch, Mode: "discard"})
		testhelpers.RequireFailure(t, err, "git_patch_conflict")
	})

	t.Run("strict validation", func(t *testing.T) {
		c := newTestContext(t, strictPatches())

		_, err := actions.ApplyPatchAction(c.ctx, actions.ApplyPatchOptions{Dir: c.dir, Patch: twoHunkPatch, Mode: "stage-hunk"})
		testhelpers.RequireFailure(t, err, "patch_requires_single_hunk")

		_, err = actions.ApplyPatchAction(c.ctx, actions.ApplyPatchOptions{Dir: c.dir, Patch: stagePatch + "diff --git a/b.txt b/b.txt\n--- a/b.txt\n+++ b/b.txt\n@@ -1 +1 @@\n-b\n+c\n", Mode: "stage"})
		testhelpers.RequireFailure(t, err, "patch_requires_single_file")

		_, err = actions.ApplyPatchAction(c.ctx, actions.ApplyPatchOptions{Dir: c.dir, Patch: "--- a/a.txt\n+++ b/a.txt\n@@ -1,3 +1,3 @@\n-old\n+new\n", Mode: "stage"})
		testhelpers.RequireFailure(t, err, "invalid_patch_hunk_counts")

		_, err = actions.ApplyPatchAction(c.ctx, actions.ApplyPatchOptions{Dir: c.dir, Patch: twoHunkPatch, Mode: "stage", Target: "file"})
		require.NoError(t, err)
		require.Equal(t, 1, c.runner.Count("git apply --whitespace=nowarn --cached"))
	})

	t.Run("multi-hunk patches pass when strict validation is off", func(t *testing.T) {
		c := newTestContext(t)
		_, err := actions.ApplyPatchAction(c.ctx, actions.ApplyPatchOptions{Dir: c.dir, Patch: twoHunkPatch, Mode: "unstage-hunk"})
		require.NoError(t, err)
		require.Equal(t, 1, c.runner.Count("git apply --whitespace=nowarn --cached --reverse"))
		require.Equal(t, []byte(twoHunkPatch), c.runner.Calls()[len(c.runner.Calls())-1].Stdin)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		c := newTestContext(t)
		cases := []struct {
			opts actions.ApplyPatchOptions
			code string
		}{
			{actions.ApplyPatchOptions{Patch: " \n"}, "missing_patch"},
			{actions.ApplyPatchOptions{Patch: "--- a/../x\n+++ b/../x\n@@ -1 +1 @@\n-a\n+b\n"}, "invalid_patch"},
			{actions.ApplyPatchOptions{Patch: stagePatch, Mode: "rebase"}, "invalid_mode"},
			{actions.ApplyPatchOptions{Patch: stagePatch, Target: "line"}, "invalid_patch_target"},
			{actions.ApplyPatchOptions{Patch: stagePatch, Mode: "stage-hunk", Target: "selected"}, "patch_mode_target_mismatch"},
		}
		for _, tc := range cases {
			tc.opts.Dir = c.dir
			_, err := actions.ApplyPatchAction(c.ctx, tc.opts)
			testhelpers.RequireFailure(t, err, tc.code)
		}
		require.Equal(t, 0, c.runner.Count("git apply"))
	})
}
