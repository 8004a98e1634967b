package actions_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/testhelpers"
)

func TestFetchAction(t *testing.T) {
	cases := []struct {
		name string
		opts actions.FetchOptions
		want string
	}{
		{"default remote", actions.FetchOptions{}, "git fetch"},
		{"all with prune", actions.FetchOptions{All: true, Prune: true}, "git fetch --prune --all"},
		{"remote branch", actions.FetchOptions{Remote: "upstream", Branch: " main "}, "git fetch upstream main"},
		{"remote ref", actions.FetchOptions{Remote: "origin", Ref: "refs/tags/v1"}, "git fetch origin refs/tags/v1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext(t)
			tc.opts.Dir = c.dir
			res, err := actions.FetchAction(c.ctx, tc.opts)
			require.NoError(t, err)
			require.True(t, res.Success)
			require.Equal(t, []string{tc.want}, c.runner.Commands())
		})
	}

	t.Run("invalid combinations", func(t *testing.T) {
		c := newTestContext(t)
		_, err := actions.FetchAction(c.ctx, actions.FetchOptions{Dir: c.dir, All: true, Remote: "origin"})
		testhelpers.RequireFailure(t, err, "invalid_fetch_args")

		_, err = actions.FetchAction(c.ctx, actions.FetchOptions{Dir: c.dir, Branch: "main"})
		failure := testhelpers.RequireFailure(t, err, "missing_remote")
		require.Equal(t, "remote is required when branch is provided", failure.Message)

		_, err = actions.FetchAction(c.ctx, actions.FetchOptions{Dir: c.dir, Ref: "refs/heads/main"})
		failure = testhelpers.RequireFailure(t, err, "missing_remote")
		require.Equal(t, "remote is required when ref is provided", failure.Message)
		require.Empty(t, c.runner.Commands())
	})

	t.Run("option-shaped arguments are rejected", func(t *testing.T) {
		c := newTestContext(t)
		_, err := actions.FetchAction(c.ctx, actions.FetchOptions{Dir: c.dir, Remote: "--upload-pack=touch x"})
		testhelpers.RequireFailure(t, err, "invalid_remote")
		_, err = actions.FetchAction(c.ctx, actions.FetchOptions{Dir: c.dir, Remote: "origin", Branch: "-q"})
		testhelpers.RequireFailure(t, err, "invalid_branch")
		_, err = actions.PullAction(c.ctx, actions.PullOptions{Dir: c.dir, Remote: "origin", Branch: "--rebase=interactive"})
		testhelpers.RequireFailure(t, err, "invalid_branch")
		require.Empty(t, c.runner.Commands())
	})

	t.Run("askpass is removed after a failed fetch", func(t *testing.T) {
		c := newTestContext(t)
		c.runner.On("git -c credential.helper= fetch", testhelpers.Fail(128, "fatal: Authentication failed for 'https://example.com/repo.git/'"))
		_, err := actions.FetchAction(c.ctx, actions.FetchOptions{
			Dir:    c.dir,
			Remote: "origin",
			Auth:   actions.AuthOptions{Username: "me", Password: "wrong"},
		})
		failure := testhelpers.RequireFailure(t, err, "git_auth_required")
		require.Equal(t, 401, failure.Status)

		_, statErr := os.Stat(askpassPath(t, c.runner.Calls()))
		require.True(t, os.IsNotExist(statErr), "askpass script should be removed")
	})

	t.Run("auth failure", func(t *testing.T) {
		c := newTestContext(t)
		c.runner.On("git fetch", testhelpers.Fail(128, "fatal: could not read Username for 'https://github.com': terminal prompts disabled"))
		_, err := actions.FetchAction(c.ctx, actions.FetchOptions{Dir: c.dir})
		failure := testhelpers.RequireFailure(t, err, "git_auth_required")
		require.Equal(t, 401, failure.Status)
	})
}

func TestPullAction(t *testing.T) {
	const stat = "Updating 1111111..2222222\nFast-forward\n a.txt     | 3 ++-\n dir/b.txt | 1 +\n 2 files changed, 3 insertions(+), 1 deletion(-)\n"

	t.Run("parses the diffstat", func(t *testing.T) {
		c := newTestContext(t)
		c.runner.On("git pull", testhelpers.Ok(stat))

		res, err := actions.PullAction(c.ctx, actions.PullOptions{Dir: c.dir, Remote: "origin", Branch: "main", Rebase: true})
		require.NoError(t, err)
		require.Equal(t, []string{"git pull --rebase origin main --stat"}, c.runner.Commands())
		require.Equal(t, []string{"a.txt", "dir/b.txt"}, res.Files)
		require.Equal(t, 3, res.Insertions)
		require.Equal(t, 1, res.Deletions)
		require.Equal(t, 2, res.Summary.Changes)
	})

	t.Run("already up to date", func(t *testing.T) {
		c := newTestContext(t)
		c.runner.On("git pull", testhelpers.Ok("Already up to date.\n"))
		res, err := actions.PullAction(c.ctx, actions.PullOptions{Dir: c.dir})
		require.NoError(t, err)
		require.Equal(t, []string{"git pull --stat"}, c.runner.Commands())
		require.Empty(t, res.Files)
		require.NotNil(t, res.Files)
	})

	t.Run("branch needs a remote", func(t *testing.T) {
		c := newTestContext(t)
		_, err := actions.PullAction(c.ctx, actions.PullOptions{Dir: c.dir, Ref: "main"})
		testhelpers.RequireFailure(t, err, "missing_remote")
	})

	t.Run("conflict", func(t *testing.T) {
		c := newTestContext(t)
		c.runner.On("git pull", testhelpers.Fail(1, "CONFLICT (content): Merge conflict in a.txt\nAutomatic merge failed; fix conflicts and then commit the result."))
		_, err := actions.PullAction(c.ctx, actions.PullOptions{Dir: c.dir})
		require.Error(t, err)
	})
}
