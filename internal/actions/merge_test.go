package actions_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/testhelpers"
)

func TestSequencerStart(t *testing.T) {
	cases := []struct {
		name string
		run  func(ctx *testContext) error
		want string
	}{
		{"merge", func(c *testContext) error {
			_, err := actions.MergeAction(c.ctx, actions.MergeOptions{Dir: c.dir, Branch: " feature "})
			return err
		}, "git merge --no-edit feature"},
		{"rebase", func(c *testContext) error {
			_, err := actions.RebaseAction(c.ctx, actions.MergeOptions{Dir: c.dir, Branch: "main"})
			return err
		}, "git rebase main"},
		{"cherry-pick", func(c *testContext) error {
			_, err := actions.CherryPickAction(c.ctx, actions.PickOptions{Dir: c.dir, Commit: "abc123"})
			return err
		}, "git cherry-pick abc123"},
		{"revert", func(c *testContext) error {
			_, err := actions.RevertAction(c.ctx, actions.PickOptions{Dir: c.dir, Commit: "abc123"})
			return err
		}, "git revert --no-edit abc123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext(t)
			require.NoError(t, tc.run(c))
			require.Equal(t, []string{tc.want}, c.runner.Commands())
		})
	}

	t.Run("missing targets", func(t *testing.T) {
		c := newTestContext(t)
		_, err := actions.MergeAction(c.ctx, actions.MergeOptions{Dir: c.dir})
		testhelpers.RequireFailure(t, err, "missing_branch")
		_, err = actions.RebaseAction(c.ctx, actions.MergeOptions{Dir: c.dir, Branch: " "})
		testhelpers.RequireFailure(t, err, "missing_branch")
		_, err = actions.CherryPickAction(c.ctx, actions.PickOptions{Dir: c.dir})
		testhelpers.RequireFailure(t, err, "missing_commit")
		_, err = actions.RevertAction(c.ctx, actions.PickOptions{Dir: c.dir})
		testhelpers.RequireFailure(t, err, "missing_commit")
		require.Empty(t, c.runner.Commands())
	})

	t.Run("option-shaped targets are rejected", func(t *testing.T) {
		c := newTestContext(t)
		_, err := actions.MergeAction(c.ctx, actions.MergeOptions{Dir: c.dir, Branch: "--no-ff"})
		testhelpers.RequireFailure(t, err, "invalid_branch")
		_, err = actions.RebaseAction(c.ctx, actions.MergeOptions{Dir: c.dir, Branch: " --exec=touch x"})
		testhelpers.RequireFailure(t, err, "invalid_branch")
		_, err = actions.CherryPickAction(c.ctx, actions.PickOptions{Dir: c.dir, Commit: "-n"})
		testhelpers.RequireFailure(t, err, "invalid_commit")
		_, err = actions.RevertAction(c.ctx, actions.PickOptions{Dir: c.dir, Commit: "--mainline=1"})
		testhelpers.RequireFailure(t, err, "invalid_commit")
		require.Empty(t, c.runner.Commands())
	})

	t.Run("unclassified failures get an operation code", func(t *testing.T) {
		c := newTestContext(t)
		c.runner.On("git merge", testhelpers.Fail(1, "some unknown error"))
		c.runner.On("git rebase", testhelpers.Fail(1, "some unknown error"))
		c.runner.On("git cherry-pick", testhelpers.Fail(1, "some unknown error"))
		c.runner.On("git revert", testhelpers.Fail(1, "some unknown error"))

		_, err := actions.MergeAction(c.ctx, actions.MergeOptions{Dir: c.dir, Branch: "feature"})
		testhelpers.RequireFailure(t, err, "git_merge_failed")
		_, err = actions.RebaseAction(c.ctx, actions.MergeOptions{Dir: c.dir, Branch: "feature"})
		testhelpers.RequireFailure(t, err, "git_rebase_failed")
		_, err = actions.CherryPickAction(c.ctx, actions.PickOptions{Dir: c.dir, Commit: "abc123"})
		testhelpers.RequireFailure(t, err, "git_cherry_pick_failed")
		_, err = actions.RevertAction(c.ctx, actions.PickOptions{Dir: c.dir, Commit: "abc123"})
		testhelpers.RequireFailure(t, err, "git_revert_failed")
	})

	t.Run("conflicts are classified", func(t *testing.T) {
		c := newTestContext(t)
		c.runner.On("git merge", testhelpers.Fail(1, "Automatic merge failed; fix conflicts and then commit the result.\nerror: Merging is not possible because you have unmerged files."))
		_, err := actions.MergeAction(c.ctx, actions.MergeOptions{Dir: c.dir, Branch: "feature"})
		testhelpers.RequireFailure(t, err, "merge_in_progress")
	})
}

func TestSequencerResume(t *testing.T) {
	t.Run("abort", func(t *testing.T) {
		for _, op := range []actions.SequencerOp{actions.OpMerge, actions.OpRebase, actions.OpCherryPick, actions.OpRevert} {
			c := newTestContext(t)
			_, err := actions.AbortAction(c.ctx, actions.SequencerOptions{Dir: c.dir, Op: op})
			require.NoError(t, err)
			require.Equal(t, []string{"git " + string(op) + " --abort"}, c.runner.Commands())
		}
	})

	t.Run("continue disables the editor", func(t *testing.T) {
		c := newTestContext(t)
		_, err := actions.ContinueAction(c.ctx, actions.SequencerOptions{Dir: c.dir, Op: actions.OpRebase})
		require.NoError(t, err)
		require.Equal(t, []string{"git -c core.editor=true rebase --continue"}, c.runner.Commands())
	})

	t.Run("skip", func(t *testing.T) {
		c := newTestContext(t)
		_, err := actions.SkipAction(c.ctx, actions.SequencerOptions{Dir: c.dir, Op: actions.OpCherryPick})
		require.NoError(t, err)
		require.Equal(t, []string{"git cherry-pick --skip"}, c.runner.Commands())
	})

	t.Run("merge cannot continue or skip", func(t *testing.T) {
		c := newTestContext(t)
		_, err := actions.ContinueAction(c.ctx, actions.SequencerOptions{Dir: c.dir, Op: actions.OpMerge})
		testhelpers.RequireFailure(t, err, "invalid_operation")
		_, err = actions.SkipAction(c.ctx, actions.SequencerOptions{Dir: c.dir, Op: actions.OpMerge})
		testhelpers.RequireFailure(t, err, "invalid_operation")
		require.Empty(t, c.runner.Commands())
	})

	t.Run("parse operation names", func(t *testing.T) {
		op, err := actions.ParseSequencerOp(" Cherry_Pick ")
		require.NoError(t, err)
		require.Equal(t, actions.OpCherryPick, op)
		_, err = actions.ParseSequencerOp("bisect")
		testhelpers.RequireFailure(t, err, "invalid_operation")
	})
}

func TestSequencerAbortEndToEnd(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	repo := scene.Repo
	require.NoError(t, repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, repo.CommitFile("conflict.txt", "feature\n", "feature side"))
	require.NoError(t, repo.CheckoutBranch("main"))
	require.NoError(t, repo.CommitFile("conflict.txt", "main\n", "main side"))

	ctx := testhelpers.NewTestContext(t, nil)
	_, err := actions.MergeAction(ctx, actions.MergeOptions{Dir: scene.Dir, Branch: "feature"})
	require.Error(t, err)

	_, err = actions.UndoAction(ctx, actions.UndoOptions{Dir: scene.Dir})
	failure := testhelpers.RequireFailure(t, err, "git_undo_not_allowed")
	require.Equal(t, 409, failure.Status)

	_, err = actions.AbortAction(ctx, actions.SequencerOptions{Dir: scene.Dir, Op: actions.OpMerge})
	require.NoError(t, err)

	content, err := repo.ReadFile("conflict.txt")
	require.NoError(t, err)
	require.Equal(t, "main\n", content)
}

func TestRebaseDoesNotRunExecTargets(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CommitFile("feature.txt", "feature\n", "feature work"))
	marker := filepath.Join(t.TempDir(), "marker")

	ctx := testhelpers.NewTestContext(t, nil)
	_, err := actions.RebaseAction(ctx, actions.MergeOptions{Dir: scene.Dir, Branch: "--exec=touch " + marker})
	failure := testhelpers.RequireFailure(t, err, "invalid_branch")
	require.Equal(t, 400, failure.Status)

	_, statErr := os.Stat(marker)
	require.True(t, os.IsNotExist(statErr))
}
